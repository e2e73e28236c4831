package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPSynthesizer calls an external text-to-speech service and returns the
// URL of the generated audio.
type HTTPSynthesizer struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewHTTPSynthesizer(logger *slog.Logger, baseURL, apiKey string, httpClient *http.Client) *HTTPSynthesizer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTTPSynthesizer{
		logger:     logger.With("adapter", "tts_http"),
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type synthesizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type synthesizeResponse struct {
	AudioURL string `json:"audio_url"`
}

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text string, languageCode string) (string, error) {
	reqBytes, err := json.Marshal(synthesizeRequest{Text: text, Language: languageCode})
	if err != nil {
		return "", fmt.Errorf("failed to marshal synthesize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/synthesize", bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create synthesize HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.ErrorContext(ctx, "TTS request failed", "error", err)
		return "", fmt.Errorf("tts synthesize request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read synthesize response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		s.logger.ErrorContext(ctx, "TTS service returned non-2xx status",
			"status_code", httpResp.StatusCode, "body", string(respBody))
		return "", fmt.Errorf("tts API status %d", httpResp.StatusCode)
	}

	var resp synthesizeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode synthesize response: %w", err)
	}
	return resp.AudioURL, nil
}
