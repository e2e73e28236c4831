package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/arogyamitra/gateway/internal/gateway_service/adapters/channel"
	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// MessageHandler exposes the authenticated admin/test send endpoint. It
// bypasses the pipeline and delivers directly through a channel adapter.
type MessageHandler struct {
	channels     map[domain.Channel]channel.Adapter
	interactions domain.InteractionRepository
	logger       *slog.Logger
	validate     *validator.Validate
}

func NewMessageHandler(channels map[domain.Channel]channel.Adapter, interactions domain.InteractionRepository, validate *validator.Validate, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		channels:     channels,
		interactions: interactions,
		logger:       logger.With("handler", "message"),
		validate:     validate,
	}
}

// HandleSendMessage sends a one-off message to a user on a chosen channel.
func (h *MessageHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi_middleware.GetReqID(ctx)
	logger := h.logger.With("request_id", requestID)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read send-message request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req SendMessageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logger.ErrorContext(ctx, "Failed to decode send-message request JSON", "error", err)
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.StructCtx(ctx, req); err != nil {
		logger.WarnContext(ctx, "Send-message request validation failed", "error", err)
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	ch, ok := channelFromParam(req.Channel)
	if !ok {
		http.Error(w, "Unknown channel", http.StatusBadRequest)
		return
	}
	adapter, ok := h.channels[ch]
	if !ok {
		logger.WarnContext(ctx, "Channel not configured", "channel", ch)
		http.Error(w, "Channel not configured", http.StatusServiceUnavailable)
		return
	}

	result, err := adapter.Send(ctx, req.To, req.Message, "")
	if err != nil {
		logger.ErrorContext(ctx, "Admin send failed", "channel", ch, "recipient", req.To, "error", err)
		http.Error(w, "Failed to send message", http.StatusBadGateway)
		return
	}

	if err := h.interactions.Append(ctx, domain.NewInteraction(req.To, req.Message, domain.SenderBot, ch, result.MessageID, map[string]any{
		"source": "admin_send",
	})); err != nil {
		logger.ErrorContext(ctx, "Failed to log admin send interaction", "error", err)
	}

	logger.InfoContext(ctx, "Admin message sent", "channel", ch, "recipient", req.To, "message_id", result.MessageID)
	writeJSON(w, http.StatusOK, SendMessageResponse{
		Status:    "success",
		MessageID: result.MessageID,
		Recipient: req.To,
	})
}
