package refiner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildInstruction(t *testing.T) {
	got := buildInstruction("French", "Bonjour le monde")

	if !strings.Contains(got, "French copy editor") {
		t.Errorf("expected language in instruction, got %q", got)
	}
	if !strings.Contains(got, "Bonjour le monde") {
		t.Errorf("expected text in instruction, got %q", got)
	}
}

func TestOllamaRefiner_Refine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != "llama3.2" {
			t.Errorf("expected model llama3.2, got %q", req.Model)
		}
		if req.Stream {
			t.Error("expected stream=false")
		}
		if !strings.Contains(req.Prompt, "helo wrld") {
			t.Errorf("expected text in prompt, got %q", req.Prompt)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaResponse{Response: "Hello world"})
	}))
	defer server.Close()

	r := NewOllamaRefiner("", server.URL)
	got, err := r.Refine(context.Background(), "English", "helo wrld")
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if got != "Hello world" {
		t.Errorf("expected 'Hello world', got %q", got)
	}
}

func TestOllamaRefiner_Refine_CleansArtifacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaResponse{
			Response: "<think>fixing grammar</think>\nHere is the corrected text: \"Hello world\"",
		})
	}))
	defer server.Close()

	r := NewOllamaRefiner("", server.URL)
	got, err := r.Refine(context.Background(), "English", "helo wrld")
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if got != "Hello world" {
		t.Errorf("expected cleaned text, got %q", got)
	}
}

func TestOllamaRefiner_Refine_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaResponse{Response: "  "})
	}))
	defer server.Close()

	r := NewOllamaRefiner("", server.URL)
	got, err := r.Refine(context.Background(), "English", "hello")
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}

func TestOllamaRefiner_Refine_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := NewOllamaRefiner("", server.URL)
	_, err := r.Refine(context.Background(), "English", "hello")
	if err == nil {
		t.Error("expected error for non-OK status")
	}
}

func TestOpenRouterRefiner_Refine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != DefaultOpenRouterModel {
			t.Errorf("expected default model, got %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("expected single user message, got %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Hello world"}}]}`))
	}))
	defer server.Close()

	r := NewOpenRouterRefiner("test-key", "", server.URL)
	got, err := r.Refine(context.Background(), "English", "helo wrld")
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if got != "Hello world" {
		t.Errorf("expected 'Hello world', got %q", got)
	}
}

func TestOpenRouterRefiner_Refine_NoAPIKey(t *testing.T) {
	r := NewOpenRouterRefiner("", "", "")
	_, err := r.Refine(context.Background(), "English", "hello")
	if err == nil {
		t.Error("expected error without API key")
	}
}

func TestOpenRouterRefiner_Refine_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	r := NewOpenRouterRefiner("test-key", "", server.URL)
	got, err := r.Refine(context.Background(), "English", "hello")
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}
