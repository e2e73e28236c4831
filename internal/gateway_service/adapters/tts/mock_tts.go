package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// MockSynthesizer returns a deterministic pseudo-URL without generating any
// audio, keyed on the text so repeated replies map to the same reference.
type MockSynthesizer struct {
	logger *slog.Logger
}

func NewMockSynthesizer(logger *slog.Logger) *MockSynthesizer {
	return &MockSynthesizer{logger: logger.With("adapter", "tts_mock")}
}

func (s *MockSynthesizer) Synthesize(ctx context.Context, text string, languageCode string) (string, error) {
	sum := sha256.Sum256([]byte(languageCode + ":" + text))
	ref := "mock://tts/" + languageCode + "/" + hex.EncodeToString(sum[:8]) + ".mp3"
	s.logger.DebugContext(ctx, "MockSynthesizer generated voice reference", "ref", ref)
	return ref, nil
}
