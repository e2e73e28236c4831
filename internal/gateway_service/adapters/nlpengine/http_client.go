package nlpengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// HTTPClassifier calls an external NLP service over HTTP.
type HTTPClassifier struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewHTTPClassifier(logger *slog.Logger, baseURL, apiKey string, httpClient *http.Client) *HTTPClassifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClassifier{
		logger:     logger.With("adapter", "nlp_http"),
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Response   string            `json:"response"`
	Entities   map[string]string `json:"entities"`
	NeedsVoice bool              `json:"needs_voice"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, text string) (*domain.NlpResult, error) {
	reqBytes, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create classify HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "NLP request failed", "error", err)
		return nil, fmt.Errorf("nlp classify request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read classify response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		c.logger.ErrorContext(ctx, "NLP service returned non-2xx status",
			"status_code", httpResp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("nlp API status %d", httpResp.StatusCode)
	}

	var resp classifyResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode classify response: %w", err)
	}

	c.logger.DebugContext(ctx, "Classified message", "intent", resp.Intent, "confidence", resp.Confidence)
	return &domain.NlpResult{
		Intent:     resp.Intent,
		Confidence: resp.Confidence,
		Response:   resp.Response,
		Entities:   resp.Entities,
		NeedsVoice: resp.NeedsVoice,
	}, nil
}
