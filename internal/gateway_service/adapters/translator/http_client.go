package translator

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

// HTTPTranslator talks to a LibreTranslate-compatible translation API.
type HTTPTranslator struct {
	logger      *slog.Logger
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	workingLang string
}

func NewHTTPTranslator(logger *slog.Logger, baseURL, apiKey, workingLang string, httpClient *http.Client) *HTTPTranslator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPTranslator{
		logger:      logger.With("adapter", "translator_http"),
		httpClient:  httpClient,
		baseURL:     baseURL,
		apiKey:      apiKey,
		workingLang: workingLang,
	}
}

type detectRequest struct {
	Q      string `json:"q"`
	APIKey string `json:"api_key,omitempty"`
}

type detectResponse struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (t *HTTPTranslator) DetectLanguage(ctx context.Context, text string) (string, error) {
	body, err := t.post(ctx, "/detect", detectRequest{Q: text, APIKey: t.apiKey})
	if err != nil {
		return "", err
	}

	// The detect endpoint returns candidates ordered by confidence.
	var candidates []detectResponse
	if err := json.Unmarshal(body, &candidates); err != nil {
		return "", fmt.Errorf("failed to decode detect response: %w", err)
	}
	if len(candidates) == 0 {
		t.logger.WarnContext(ctx, "Detect returned no candidates, assuming working language")
		return t.workingLang, nil
	}
	return candidates[0].Language, nil
}

func (t *HTTPTranslator) TranslateToWorking(ctx context.Context, text string) (string, error) {
	return t.translate(ctx, text, "auto", t.workingLang)
}

func (t *HTTPTranslator) TranslateFromWorking(ctx context.Context, text string, languageCode string) (string, error) {
	return t.translate(ctx, text, t.workingLang, languageCode)
}

func (t *HTTPTranslator) translate(ctx context.Context, text, source, target string) (string, error) {
	body, err := t.post(ctx, "/translate", translateRequest{Q: text, Source: source, Target: target, APIKey: t.apiKey})
	if err != nil {
		return "", err
	}

	var resp translateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode translate response: %w", err)
	}
	return resp.TranslatedText, nil
}

func (t *HTTPTranslator) post(ctx context.Context, path string, payload any) ([]byte, error) {
	reqBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal translator request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create translator HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		t.logger.ErrorContext(ctx, "Translator request failed", "path", path, "error", err)
		return nil, fmt.Errorf("translator request to %s failed: %w", path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read translator response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		t.logger.ErrorContext(ctx, "Translator returned non-2xx status",
			"path", path, "status_code", httpResp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("translator API status %d for %s", httpResp.StatusCode, path)
	}
	return respBody, nil
}
