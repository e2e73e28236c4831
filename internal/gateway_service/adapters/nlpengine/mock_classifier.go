package nlpengine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/arogyamitra/gateway/internal/gateway_service/domain"
)

// MockClassifier is a keyword-rule classifier for development and tests.
// It never fails; unmatched input falls through to a low-confidence
// general_query intent.
type MockClassifier struct {
	logger *slog.Logger
}

func NewMockClassifier(logger *slog.Logger) *MockClassifier {
	return &MockClassifier{logger: logger.With("adapter", "nlp_mock")}
}

type keywordRule struct {
	keywords   []string
	intent     string
	confidence float64
	response   string
}

var mockRules = []keywordRule{
	{
		keywords:   []string{"emergency", "help me", "dying", "accident", "unconscious"},
		intent:     "emergency",
		confidence: 0.95,
		response:   "If this is a medical emergency, please call your local emergency number immediately.",
	},
	{
		keywords:   []string{"fever", "headache", "cough", "symptom", "pain", "vomiting"},
		intent:     "symptom_check",
		confidence: 0.88,
		response:   "Please describe your symptoms in detail.",
	},
	{
		keywords:   []string{"vaccine", "vaccination", "immunization", "dose", "booster"},
		intent:     "vaccine_info",
		confidence: 0.85,
		response:   "Here is information about vaccination schedules and available vaccines.",
	},
	{
		keywords:   []string{"outbreak", "epidemic", "cases in", "alert"},
		intent:     "outbreak_alert",
		confidence: 0.82,
		response:   "Checking current outbreak information for your area.",
	},
	{
		keywords:   []string{"prevent", "prevention", "protect", "hygiene"},
		intent:     "prevention_tips",
		confidence: 0.8,
		response:   "Wash hands regularly, maintain distancing in crowded areas and keep vaccinations up to date.",
	},
}

func (c *MockClassifier) Classify(ctx context.Context, text string) (*domain.NlpResult, error) {
	lowered := strings.ToLower(text)
	for _, rule := range mockRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				c.logger.DebugContext(ctx, "MockClassifier matched rule", "intent", rule.intent, "keyword", kw)
				return &domain.NlpResult{
					Intent:     rule.intent,
					Confidence: rule.confidence,
					Response:   rule.response,
					Entities:   map[string]string{},
				}, nil
			}
		}
	}

	return &domain.NlpResult{
		Intent:     "general_query",
		Confidence: 0.3,
		Response:   "I can help with symptoms, vaccines, disease information, prevention tips and outbreak alerts. What would you like to know?",
		Entities:   map[string]string{},
	}, nil
}
