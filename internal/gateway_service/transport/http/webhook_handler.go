package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arogyamitra/gateway/internal/gateway_service/app"
	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

const MaxRequestBodySize = 1 << 20 // 1 MB

// WebhookHandler terminates the provider webhook boundary: it verifies the
// request synchronously (signature, JSON shape), enqueues the payload for
// background processing and acknowledges immediately. Failures occurring
// after acknowledgment are invisible to the webhook caller.
type WebhookHandler struct {
	enqueuer    app.Enqueuer
	logger      *slog.Logger
	verifyToken string
	appSecret   string
}

func NewWebhookHandler(enqueuer app.Enqueuer, verifyToken, appSecret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		enqueuer:    enqueuer,
		logger:      logger.With("handler", "webhook"),
		verifyToken: verifyToken,
		appSecret:   appSecret,
	}
}

// HandleVerification implements the subscription handshake: on
// mode=="subscribe" with a matching verify token the challenge is echoed
// back verbatim.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	h.logger.InfoContext(ctx, "Webhook verification attempt", "mode", mode)

	if mode == "" || token == "" {
		h.logger.WarnContext(ctx, "Verification failed - missing parameters")
		http.Error(w, "Missing parameters", http.StatusBadRequest)
		return
	}

	if mode != "subscribe" || token != h.verifyToken {
		h.logger.WarnContext(ctx, "Verification failed - invalid token or mode")
		http.Error(w, "Verification failed", http.StatusForbidden)
		return
	}

	h.logger.InfoContext(ctx, "Webhook verified")
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(challenge))
}

// HandleWebhook receives inbound events for the channel named in the URL.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi_middleware.GetReqID(ctx)
	logger := h.logger.With("request_id", requestID)

	ch, ok := channelFromParam(chi.URLParam(r, "channel"))
	if !ok {
		logger.WarnContext(ctx, "Unknown webhook channel", "channel", chi.URLParam(r, "channel"))
		http.Error(w, "Unknown channel", http.StatusNotFound)
		return
	}
	logger = logger.With("channel", ch)

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read webhook request body", "error", err)
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		} else {
			http.Error(w, "Error reading request body", http.StatusBadRequest)
		}
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Hub-Signature-256")
	if !app.VerifySignature(rawBody, signature, h.appSecret) {
		logger.WarnContext(ctx, "Invalid webhook signature", "signature_present", signature != "")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"status": "unauthorized"})
		return
	}

	var payload domain.WebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		logger.ErrorContext(ctx, "Failed to decode webhook JSON", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "invalid_json"})
		return
	}

	// Acknowledge before processing: the provider never waits on the
	// pipeline. A full queue is logged and counted, not surfaced here.
	accepted := h.enqueuer.Enqueue(app.WebhookJob{Channel: ch, Payload: &payload})
	if !accepted {
		logger.ErrorContext(ctx, "Webhook payload dropped, work queue full")
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func channelFromParam(param string) (domain.Channel, bool) {
	switch param {
	case string(domain.ChannelWhatsApp):
		return domain.ChannelWhatsApp, true
	case string(domain.ChannelSMS):
		return domain.ChannelSMS, true
	default:
		return "", false
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
