package nlpengine

import (
	"context"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// Classifier resolves a working-language message into an intent, reply
// template and extracted entities. Implementations should degrade to a
// low-confidence fallback intent rather than fail on unrecognized input;
// a returned error routes the whole turn onto the orchestrator's error path.
type Classifier interface {
	Classify(ctx context.Context, text string) (*domain.NlpResult, error)
}
