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
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/valpere/voxlate/internal/refiner"
	"github.com/valpere/voxlate/internal/store"
	"github.com/valpere/voxlate/internal/transcriber"
	"github.com/valpere/voxlate/internal/translator"
)

// openStore opens the shared database, creating its directory and seeding
// the default settings row on first use.
func openStore(ctx context.Context) (*store.Store, error) {
	dbPath := viper.GetString("db")
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.SeedDefaults(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed settings: %w", err)
	}
	return db, nil
}

// buildTranscriber constructs the configured speech-to-text backend.
func buildTranscriber() (transcriber.Client, error) {
	switch backend := viper.GetString("transcriber.backend"); backend {
	case "google":
		return transcriber.NewGoogleClient(viper.GetString("transcriber.google_api_key"), ""), nil
	case "whisper":
		return transcriber.NewWhisperClient(
			viper.GetString("transcriber.whisper_api_key"),
			viper.GetString("transcriber.whisper_model"), ""), nil
	default:
		return nil, fmt.Errorf("unknown transcriber backend: %s", backend)
	}
}

// buildTranslator constructs the configured translation service.
func buildTranslator() (translator.TranslationService, translator.ServiceConfig, error) {
	cfg := translator.ServiceConfig{
		Credentials: viper.GetString("translator.credentials"),
		Model:       viper.GetString("translator.model"),
	}

	switch service := viper.GetString("translator.service"); service {
	case "google":
		return translator.NewGoogleService(), cfg, nil
	case "mymemory":
		return translator.NewMyMemoryService(viper.GetString("translator.mymemory_email")), cfg, nil
	case "ollama":
		return translator.NewOllamaTranslator(viper.GetString("translator.ollama_url"), nil), cfg, nil
	default:
		return nil, cfg, fmt.Errorf("unknown translation service: %s", service)
	}
}

// buildRefiner constructs the optional refinement backend; nil when disabled.
func buildRefiner() (refiner.Refiner, error) {
	if !viper.GetBool("refiner.enabled") {
		return nil, nil
	}

	switch backend := viper.GetString("refiner.backend"); backend {
	case "ollama":
		return refiner.NewOllamaRefiner(viper.GetString("refiner.model"), viper.GetString("refiner.url")), nil
	case "openrouter":
		return refiner.NewOpenRouterRefiner(
			viper.GetString("refiner.api_key"),
			viper.GetString("refiner.model"), ""), nil
	default:
		return nil, fmt.Errorf("unknown refiner backend: %s", backend)
	}
}
