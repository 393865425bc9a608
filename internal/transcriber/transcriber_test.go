package transcriber

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.flac")
	if err := os.WriteFile(path, []byte("audio-bytes"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	data, err := LoadAudio(path)
	if err != nil {
		t.Fatalf("LoadAudio failed: %v", err)
	}
	if string(data) != "audio-bytes" {
		t.Errorf("unexpected audio content: %q", data)
	}
}

func TestLoadAudio_EmptyPath(t *testing.T) {
	_, err := LoadAudio("")
	if !errors.Is(err, ErrAudioUnavailable) {
		t.Errorf("expected ErrAudioUnavailable, got %v", err)
	}
}

func TestLoadAudio_MissingFile(t *testing.T) {
	_, err := LoadAudio(filepath.Join(t.TempDir(), "nope.flac"))
	if !errors.Is(err, ErrAudioUnavailable) {
		t.Errorf("expected ErrAudioUnavailable, got %v", err)
	}
}

func TestLoadAudio_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.flac")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, err := LoadAudio(path)
	if !errors.Is(err, ErrAudioUnavailable) {
		t.Errorf("expected ErrAudioUnavailable, got %v", err)
	}
}

func TestLocaleFor(t *testing.T) {
	cases := []struct {
		language string
		expected string
	}{
		{"en", "en-US"},
		{"fr", "fr-FR"},
		{"pt", "pt-BR"},
		{"zh-CN", "cmn-Hans-CN"},
		{"he", "iw-IL"},
		{"xx", DefaultLocale},
		{"", DefaultLocale},
	}
	for _, tc := range cases {
		if got := LocaleFor(tc.language); got != tc.expected {
			t.Errorf("LocaleFor(%q) = %q, expected %q", tc.language, got, tc.expected)
		}
	}
}

func TestEncodingFor(t *testing.T) {
	cases := []struct {
		platform string
		encoding string
		rate     int
	}{
		{"darwin", "FLAC", 44100},
		{"linux", "FLAC", 44100},
		{"windows", "LINEAR16", 16000},
		{"android", "AMR_WB", 16000},
		{"plan9", "FLAC", 44100},
	}
	for _, tc := range cases {
		got := EncodingFor(tc.platform)
		if got.Encoding != tc.encoding || got.SampleRateHertz != tc.rate {
			t.Errorf("EncodingFor(%q) = %+v, expected %s/%d", tc.platform, got, tc.encoding, tc.rate)
		}
	}
}

func TestEncodingFor_CurrentPlatform(t *testing.T) {
	got := EncodingFor("")
	if got.Encoding == "" || got.SampleRateHertz == 0 {
		t.Errorf("expected non-zero parameters for current platform, got %+v", got)
	}
}

func TestGoogleClient_Transcribe(t *testing.T) {
	audio := []byte("fake-flac-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected key query parameter, got %q", r.URL.RawQuery)
		}

		var req googleRecognizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Config.Encoding != "FLAC" || req.Config.SampleRateHertz != 44100 {
			t.Errorf("unexpected encoding config: %+v", req.Config)
		}
		if req.Config.LanguageCode != "fr-FR" {
			t.Errorf("expected languageCode fr-FR, got %q", req.Config.LanguageCode)
		}
		decoded, err := base64.StdEncoding.DecodeString(req.Audio.Content)
		if err != nil || string(decoded) != string(audio) {
			t.Errorf("audio content does not round-trip: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"alternatives":[{"transcript":"Bonjour tout le monde."},{"transcript":"bon jour"}]},
			{"alternatives":[{"transcript":"Comment allez-vous?"}]}
		]}`))
	}))
	defer server.Close()

	client := NewGoogleClient("test-key", server.URL)
	got, err := client.Transcribe(context.Background(), Request{
		Audio:           audio,
		Encoding:        "FLAC",
		SampleRateHertz: 44100,
		LanguageCode:    "fr-FR",
	})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	expected := "Bonjour tout le monde.\nComment allez-vous?"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestGoogleClient_Transcribe_NoAPIKey(t *testing.T) {
	client := NewGoogleClient("", "")
	_, err := client.Transcribe(context.Background(), Request{Audio: []byte("x")})
	if err == nil {
		t.Error("expected error without API key")
	}
}

func TestGoogleClient_Transcribe_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"API key invalid"}}`))
	}))
	defer server.Close()

	client := NewGoogleClient("bad-key", server.URL)
	_, err := client.Transcribe(context.Background(), Request{Audio: []byte("x")})
	if err == nil {
		t.Fatal("expected error for API failure")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestGoogleClient_Transcribe_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewGoogleClient("test-key", server.URL)
	_, err := client.Transcribe(context.Background(), Request{Audio: []byte("x")})
	if err == nil {
		t.Error("expected error when no transcript is returned")
	}
}

func TestWhisperClient_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("expected model whisper-1, got %q", got)
		}
		if got := r.FormValue("language"); got != "fr" {
			t.Errorf("expected bare language code fr, got %q", got)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "capture.flac" {
			t.Errorf("unexpected upload filename: %q", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"Bonjour tout le monde."}`))
	}))
	defer server.Close()

	client := NewWhisperClient("test-key", "", server.URL)
	got, err := client.Transcribe(context.Background(), Request{
		Audio:        []byte("fake-flac-bytes"),
		Encoding:     "FLAC",
		LanguageCode: "fr-FR",
	})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if got != "Bonjour tout le monde." {
		t.Errorf("unexpected transcript: %q", got)
	}
}

func TestWhisperClient_Transcribe_EmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"   "}`))
	}))
	defer server.Close()

	client := NewWhisperClient("test-key", "", server.URL)
	_, err := client.Transcribe(context.Background(), Request{Audio: []byte("x"), Encoding: "FLAC"})
	if err == nil {
		t.Error("expected error for empty transcript")
	}
}
