package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the service routes: public webhook endpoints, a
// health probe, and the JWT-protected admin/analytics API.
func NewRouter(webhook *WebhookHandler, message *MessageHandler, analytics *AnalyticsHandler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chi_middleware.RequestID)
	r.Use(chi_middleware.RealIP)
	r.Use(chi_middleware.Recoverer)
	r.Use(PrometheusMetricsMiddleware)

	r.Get("/health", handleHealth)

	r.Route("/webhooks/{channel}", func(r chi.Router) {
		r.Get("/", webhook.HandleVerification)
		r.Post("/", webhook.HandleWebhook)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/messages/send", message.HandleSendMessage)
		r.Get("/analytics/summary", analytics.HandleSummary)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "gateway",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
