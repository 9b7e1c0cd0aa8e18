package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vidyamath/api/internal/config"
)

// SarvamClient handles communication with the Sarvam speech-synthesis API
type SarvamClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	speaker    string
	model      string
	sampleRate int
}

// TTSRequest represents the request body for text-to-speech
type TTSRequest struct {
	Text                string  `json:"text"`
	TargetLanguageCode  string  `json:"target_language_code"`
	Speaker             string  `json:"speaker"`
	Pitch               float64 `json:"pitch"`
	Pace                float64 `json:"pace"`
	Loudness            float64 `json:"loudness"`
	SpeechSampleRate    int     `json:"speech_sample_rate"`
	EnablePreprocessing bool    `json:"enable_preprocessing"`
	Model               string  `json:"model"`
}

// TTSResponse represents the response from text-to-speech
type TTSResponse struct {
	RequestID string   `json:"request_id"`
	Audios    []string `json:"audios"` // base64-encoded wav buffers
}

// NewSarvamClient creates a new Sarvam API client
func NewSarvamClient(cfg *config.SarvamConfig) *SarvamClient {
	return &SarvamClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		speaker:    cfg.Speaker,
		model:      cfg.Model,
		sampleRate: cfg.SampleRate,
	}
}

// TextToSpeech synthesizes Hindi narration for one text and returns the
// decoded wav buffer of the first audio in the response.
func (c *SarvamClient) TextToSpeech(ctx context.Context, text string) ([]byte, error) {
	reqBody := TTSRequest{
		Text:                text,
		TargetLanguageCode:  "hi-IN",
		Speaker:             c.speaker,
		Pitch:               0.1,
		Pace:                0.95,
		Loudness:            1.2,
		SpeechSampleRate:    c.sampleRate,
		EnablePreprocessing: true,
		Model:               c.model,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text-to-speech", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sarvam API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var ttsResp TTSResponse
	if err := json.Unmarshal(respBody, &ttsResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(ttsResp.Audios) == 0 {
		return nil, fmt.Errorf("no audio in response")
	}

	wav, err := base64.StdEncoding.DecodeString(ttsResp.Audios[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio: %w", err)
	}

	return wav, nil
}

// IsConfigured returns true if the client has valid configuration
func (c *SarvamClient) IsConfigured() bool {
	return c.apiKey != ""
}
