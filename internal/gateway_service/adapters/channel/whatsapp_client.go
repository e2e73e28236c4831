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

// WhatsAppAdapter sends messages through the Meta Cloud API. When a voice
// reference is present the text goes out first, followed by an audio
// message pointing at the reference.
type WhatsAppAdapter struct {
	logger        *slog.Logger
	httpClient    *http.Client
	baseURL       string
	accessToken   string
	phoneNumberID string
}

func NewWhatsAppAdapter(logger *slog.Logger, baseURL, accessToken, phoneNumberID string, httpClient *http.Client) *WhatsAppAdapter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &WhatsAppAdapter{
		logger:        logger.With("adapter", "whatsapp"),
		httpClient:    httpClient,
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
	}
}

func (a *WhatsAppAdapter) Name() string { return string(domain.ChannelWhatsApp) }

type waTextBody struct {
	Body string `json:"body"`
}

type waAudioBody struct {
	Link string `json:"link"`
}

type waSendRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *waTextBody  `json:"text,omitempty"`
	Audio            *waAudioBody `json:"audio,omitempty"`
}

type waSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

func (a *WhatsAppAdapter) Send(ctx context.Context, recipient string, text string, voiceRef string) (*domain.DeliveryResult, error) {
	result, err := a.sendOne(ctx, waSendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               recipient,
		Type:             "text",
		Text:             &waTextBody{Body: text},
	})
	if err != nil {
		return nil, err
	}

	if voiceRef != "" {
		// Voice attachment failure does not fail the already-delivered text.
		if _, audioErr := a.sendOne(ctx, waSendRequest{
			MessagingProduct: "whatsapp",
			RecipientType:    "individual",
			To:               recipient,
			Type:             "audio",
			Audio:            &waAudioBody{Link: voiceRef},
		}); audioErr != nil {
			a.logger.WarnContext(ctx, "Failed to send voice message, text already delivered",
				"recipient", recipient, "error", audioErr)
		}
	}

	return result, nil
}

func (a *WhatsAppAdapter) sendOne(ctx context.Context, req waSendRequest) (*domain.DeliveryResult, error) {
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal WhatsApp request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", a.baseURL, a.phoneNumberID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create WhatsApp HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.accessToken)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		a.logger.ErrorContext(ctx, "WhatsApp send failed", "recipient", req.To, "error", err)
		return nil, fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read WhatsApp response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		a.logger.ErrorContext(ctx, "WhatsApp API returned non-2xx status",
			"status_code", httpResp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("whatsapp API status %d", httpResp.StatusCode)
	}

	var resp waSendResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		a.logger.WarnContext(ctx, "WhatsApp send succeeded but response body was not parseable", "error", err)
		return &domain.DeliveryResult{Accepted: true}, nil
	}

	messageID := ""
	if len(resp.Messages) > 0 {
		messageID = resp.Messages[0].ID
	}
	a.logger.InfoContext(ctx, "WhatsApp message accepted", "recipient", req.To, "message_id", messageID)
	return &domain.DeliveryResult{MessageID: messageID, Accepted: true}, nil
}
