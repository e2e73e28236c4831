package channel

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// MockAdapter logs outbound messages instead of delivering them, for
// development without channel credentials.
type MockAdapter struct {
	logger *slog.Logger
	name   string
}

func NewMockAdapter(logger *slog.Logger, name string) *MockAdapter {
	if name == "" {
		name = "mock-channel"
	}
	return &MockAdapter{
		logger: logger.With("adapter", name),
		name:   name,
	}
}

func (a *MockAdapter) Name() string { return a.name }

func (a *MockAdapter) Send(ctx context.Context, recipient string, text string, voiceRef string) (*domain.DeliveryResult, error) {
	messageID := uuid.NewString()
	a.logger.InfoContext(ctx, "MockAdapter: message sent (simulated)",
		"recipient", recipient,
		"message_id", messageID,
		"text_len", len(text),
		"has_voice", voiceRef != "",
	)
	return &domain.DeliveryResult{MessageID: messageID, Accepted: true}, nil
}
