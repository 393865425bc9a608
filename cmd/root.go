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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "voxlate",
	Short: "Speech-to-translation pipeline",
	Long: `Voxlate turns a recorded audio clip into a stored, de-duplicated, refined
translation: speech recognition, machine translation, an optional grammar
polish pass, and a local history that never stores the same
(source text, target language) pair twice.

Use "voxlate run --help" for pipeline options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.voxlate.yaml)")
	rootCmd.PersistentFlags().String("db", "./data/voxlate.db", "Database path")
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
}

// initConfig loads the config file (when present) and enables VOXLATE_*
// environment overrides for every key.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".voxlate")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VOXLATE")
	viper.AutomaticEnv()

	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func setConfigDefaults() {
	viper.SetDefault("transcriber.backend", "google")
	viper.SetDefault("transcriber.whisper_model", "whisper-1")
	viper.SetDefault("translator.service", "google")
	viper.SetDefault("translator.ollama_url", "http://localhost:11434")
	viper.SetDefault("refiner.enabled", true)
	viper.SetDefault("refiner.backend", "ollama")
	viper.SetDefault("refiner.url", "http://localhost:11434")
	viper.SetDefault("refiner.model", "llama3.2")
	viper.SetDefault("pipeline.timeout", "30s")
	viper.SetDefault("pipeline.max_attempts", 3)
	viper.SetDefault("pipeline.backoff", "1s")
}
