/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/voxlate/internal/detector"
	"github.com/valpere/voxlate/internal/orchestrator"
)

var (
	runAudioPath  string
	runTargetLang string
	runNoRefine   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the speech-translation pipeline on an audio file",
	Long: `Run one end-to-end pipeline pass: transcribe the audio, translate the
transcript into the target language, polish the result, and save it to the
local history.

A result identical to an earlier run (same transcript, same target language)
is returned from the history instead of being stored twice.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		stt, err := buildTranscriber()
		if err != nil {
			return err
		}
		svc, svcCfg, err := buildTranslator()
		if err != nil {
			return err
		}

		opts := []orchestrator.Option{
			orchestrator.WithServiceConfig(svcCfg),
			orchestrator.WithDetector(detector.New()),
		}
		if !runNoRefine {
			ref, err := buildRefiner()
			if err != nil {
				return err
			}
			if ref != nil {
				opts = append(opts, orchestrator.WithRefiner(ref))
			}
		}

		orch := orchestrator.New(db, stt, svc, orchestrator.Config{
			StageTimeout: viper.GetDuration("pipeline.timeout"),
			MaxAttempts:  viper.GetInt("pipeline.max_attempts"),
			RetryBackoff: viper.GetDuration("pipeline.backoff"),
		}, opts...)

		result, err := orch.Run(ctx, runAudioPath, runTargetLang)
		if err != nil {
			return err
		}

		fmt.Printf("Transcript:  %s\n", result.Transcript)
		fmt.Printf("Translation: %s\n", result.Text)
		fmt.Printf("Language:    %s\n", result.Language)

		switch result.Persistence {
		case orchestrator.PersistenceNew:
			fmt.Printf("Saved to history (id %d)\n", result.RecordID)
		case orchestrator.PersistenceExisting:
			fmt.Printf("Already in history (id %d)\n", result.RecordID)
		case orchestrator.PersistenceFailed:
			fmt.Println("Not saved: history write failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runAudioPath, "input", "i", "", "Audio file to translate (required)")
	runCmd.Flags().StringVarP(&runTargetLang, "target", "t", "", "Target language code (required)")
	runCmd.Flags().BoolVar(&runNoRefine, "no-refine", false, "Skip the grammar refinement pass")

	runCmd.MarkFlagRequired("input")
	runCmd.MarkFlagRequired("target")
}
