package http

import "github.com/arogyamitra/gateway/internal/gateway_service/domain"

// SendMessageRequest is the admin/test send endpoint body.
type SendMessageRequest struct {
	To      string `json:"to" validate:"required,e164"`
	Message string `json:"message" validate:"required,min=1,max=4096"`
	Channel string `json:"channel" validate:"required,oneof=whatsapp sms"`
}

// SendMessageResponse reports the outcome of an admin send.
type SendMessageResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id,omitempty"`
	Recipient string `json:"recipient"`
}

// AnalyticsSummaryResponse is the dashboard summary payload.
type AnalyticsSummaryResponse struct {
	WindowDays          int                   `json:"window_days"`
	TotalQueries        int64                 `json:"total_queries"`
	UniqueUsers         int64                 `json:"unique_users"`
	TopIntents          []domain.IntentCount  `json:"top_intents"`
	ChannelDistribution []domain.ChannelCount `json:"channel_distribution"`
	RecentActivity      []domain.UserActivity `json:"recent_activity"`
}
