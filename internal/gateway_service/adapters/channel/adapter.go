package channel

import (
	"context"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// Adapter delivers a reply on one channel. voiceRef may be empty; adapters
// that cannot attach audio ignore it. Send must be safe to call from
// concurrent pipelines and safe for a caller to retry (the orchestrator
// itself does not retry).
type Adapter interface {
	Send(ctx context.Context, recipient string, text string, voiceRef string) (*domain.DeliveryResult, error)
	Name() string
}
