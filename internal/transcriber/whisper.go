package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const whisperEndpoint = "https://api.openai.com/v1/audio/transcriptions"

// WhisperClient calls the OpenAI audio transcription API. It ignores the
// request's encoding parameters; the service infers them from the upload.
type WhisperClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewWhisperClient creates a Whisper-backed transcriber. model defaults to
// whisper-1 and baseURL to the production endpoint when empty.
func NewWhisperClient(apiKey, model, baseURL string) *WhisperClient {
	if model == "" {
		model = "whisper-1"
	}
	if baseURL == "" {
		baseURL = whisperEndpoint
	}
	return &WhisperClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *WhisperClient) Name() string {
	return "whisper"
}

func (c *WhisperClient) Transcribe(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("whisper API key required")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", c.model); err != nil {
		return "", err
	}
	// The API wants a bare language code, not a locale.
	if lang, _, found := strings.Cut(req.LanguageCode, "-"); found && lang != "" {
		if err := mw.WriteField("language", lang); err != nil {
			return "", err
		}
	}

	fw, err := mw.CreateFormFile("file", "capture."+strings.ToLower(req.Encoding))
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(req.Audio); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("whisper API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var whisperResp struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&whisperResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if strings.TrimSpace(whisperResp.Text) == "" {
		return "", fmt.Errorf("no transcript returned")
	}

	return whisperResp.Text, nil
}
