package transcriber

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const googleSpeechEndpoint = "https://speech.googleapis.com/v1/speech:recognize"

// GoogleClient calls the Google Cloud Speech-to-Text REST API with an API key.
type GoogleClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGoogleClient creates a Speech-to-Text client. baseURL may be empty to use
// the production endpoint.
func NewGoogleClient(apiKey, baseURL string) *GoogleClient {
	if baseURL == "" {
		baseURL = googleSpeechEndpoint
	}
	return &GoogleClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *GoogleClient) Name() string {
	return "google"
}

type googleRecognizeRequest struct {
	Config googleRecognitionConfig `json:"config"`
	Audio  googleRecognitionAudio  `json:"audio"`
}

type googleRecognitionConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	LanguageCode    string `json:"languageCode"`
}

type googleRecognitionAudio struct {
	Content string `json:"content"` // base64-encoded audio bytes
}

type googleRecognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Transcribe sends the audio for synchronous recognition and joins the
// returned transcript fragments with newlines.
func (c *GoogleClient) Transcribe(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("google speech API key required")
	}

	body := googleRecognizeRequest{
		Config: googleRecognitionConfig{
			Encoding:        req.Encoding,
			SampleRateHertz: req.SampleRateHertz,
			LanguageCode:    req.LanguageCode,
		},
		Audio: googleRecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(req.Audio),
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		fmt.Sprintf("%s?key=%s", c.baseURL, c.apiKey), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("recognition request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("speech API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var recResp googleRecognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&recResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var fragments []string
	for _, result := range recResp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		fragments = append(fragments, result.Alternatives[0].Transcript)
	}

	if len(fragments) == 0 {
		return "", fmt.Errorf("no transcript returned")
	}

	return strings.Join(fragments, "\n"), nil
}
