// Package transcriber turns a captured audio artifact into text. Backends
// implement the Client interface; the orchestrator treats any backend failure
// as fatal for the run.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrAudioUnavailable marks a missing, unreadable, or empty audio artifact.
// It aborts a pipeline run before any network call is made.
var ErrAudioUnavailable = errors.New("audio artifact unavailable")

// Request carries one complete audio artifact and its recognition parameters.
type Request struct {
	Audio           []byte
	Encoding        string // codec identifier, e.g. "FLAC" or "LINEAR16"
	SampleRateHertz int
	LanguageCode    string // locale-qualified code, e.g. "en-US"
}

// Client is a pluggable speech-to-text backend.
type Client interface {
	Name() string
	// Transcribe returns the full transcript for the audio, with transcript
	// fragments joined by newlines.
	Transcribe(ctx context.Context, req Request) (string, error)
}

// LoadAudio reads the capture artifact at path, failing fast with
// ErrAudioUnavailable when the file is missing or empty.
func LoadAudio(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no audio path given", ErrAudioUnavailable)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrAudioUnavailable, path)
	}
	return data, nil
}
