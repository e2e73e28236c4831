package channel

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

// SMSAdapter delivers replies over a JSON SMS provider API. SMS has no
// audio support, so voice references are dropped with a debug log.
type SMSAdapter struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	senderNum  string
}

func NewSMSAdapter(logger *slog.Logger, baseURL, apiKey, senderNum string, httpClient *http.Client) *SMSAdapter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &SMSAdapter{
		logger:     logger.With("adapter", "sms"),
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		senderNum:  senderNum,
	}
}

func (a *SMSAdapter) Name() string { return string(domain.ChannelSMS) }

type smsSendRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

type smsSendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

func (a *SMSAdapter) Send(ctx context.Context, recipient string, text string, voiceRef string) (*domain.DeliveryResult, error) {
	if voiceRef != "" {
		a.logger.DebugContext(ctx, "Dropping voice reference, SMS does not carry audio", "recipient", recipient)
	}

	reqBytes, err := json.Marshal(smsSendRequest{From: a.senderNum, To: recipient, Body: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal SMS request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create SMS HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		a.logger.ErrorContext(ctx, "SMS send failed", "recipient", recipient, "error", err)
		return nil, fmt.Errorf("sms send failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read SMS response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		a.logger.ErrorContext(ctx, "SMS provider returned non-2xx status",
			"status_code", httpResp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("sms provider status %d", httpResp.StatusCode)
	}

	var resp smsSendResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		a.logger.WarnContext(ctx, "SMS send succeeded but response body was not parseable", "error", err)
		return &domain.DeliveryResult{Accepted: true}, nil
	}

	a.logger.InfoContext(ctx, "SMS message accepted", "recipient", recipient, "message_id", resp.MessageID)
	return &domain.DeliveryResult{MessageID: resp.MessageID, Accepted: true}, nil
}
