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

	"github.com/valpere/voxlate/internal/languages"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage user preferences",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the configured source language",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		cfg, err := db.GetSettings(ctx)
		if err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}
		fmt.Printf("Source language: %s\n", cfg.Language)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <language-code>",
	Short: "Set the source language (use \"auto\" to detect from speech)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := languages.Normalize(args[0])
		if code != "auto" && !languages.IsSupported(code) {
			return fmt.Errorf("unsupported language: %s", args[0])
		}

		ctx := context.Background()
		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.UpdateSettings(ctx, code); err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
		fmt.Printf("Source language set to %s\n", code)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
