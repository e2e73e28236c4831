package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	chi_middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

const (
	defaultSummaryWindowDays = 30
	maxSummaryWindowDays     = 365
	topIntentsLimit          = 10
	recentActivityLimit      = 10
)

// AnalyticsHandler serves reporting queries over the interaction ledger for
// the dashboard. It is read-only and sits behind the JWT middleware.
type AnalyticsHandler struct {
	interactions domain.InteractionRepository
	logger       *slog.Logger
}

func NewAnalyticsHandler(interactions domain.InteractionRepository, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		interactions: interactions,
		logger:       logger.With("handler", "analytics"),
	}
}

// HandleSummary aggregates ledger activity over a trailing day window
// (?days=N, default 30).
func (h *AnalyticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi_middleware.GetReqID(ctx)
	logger := h.logger.With("request_id", requestID)

	days := defaultSummaryWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxSummaryWindowDays {
			http.Error(w, "Invalid days parameter", http.StatusBadRequest)
			return
		}
		days = parsed
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	totalQueries, err := h.interactions.CountUserQueriesSince(ctx, since)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to count user queries", "error", err)
		http.Error(w, "Error retrieving analytics", http.StatusInternalServerError)
		return
	}

	uniqueUsers, err := h.interactions.CountUniqueUsersSince(ctx, since)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to count unique users", "error", err)
		http.Error(w, "Error retrieving analytics", http.StatusInternalServerError)
		return
	}

	topIntents, err := h.interactions.IntentBreakdownSince(ctx, since, topIntentsLimit)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load intent breakdown", "error", err)
		http.Error(w, "Error retrieving analytics", http.StatusInternalServerError)
		return
	}

	channels, err := h.interactions.ChannelBreakdownSince(ctx, since)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load channel breakdown", "error", err)
		http.Error(w, "Error retrieving analytics", http.StatusInternalServerError)
		return
	}

	recent, err := h.interactions.RecentActivity(ctx, recentActivityLimit)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load recent activity", "error", err)
		http.Error(w, "Error retrieving analytics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AnalyticsSummaryResponse{
		WindowDays:          days,
		TotalQueries:        totalQueries,
		UniqueUsers:         uniqueUsers,
		TopIntents:          topIntents,
		ChannelDistribution: channels,
		RecentActivity:      recent,
	})
}
