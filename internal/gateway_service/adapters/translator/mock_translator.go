package translator

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
)

// MockTranslator is a development-mode Translator that guesses the language
// from the script of the text and "translates" by tagging the string. It
// lets the gateway run end-to-end without a translation upstream.
type MockTranslator struct {
	logger      *slog.Logger
	workingLang string
}

func NewMockTranslator(logger *slog.Logger, workingLang string) *MockTranslator {
	return &MockTranslator{
		logger:      logger.With("adapter", "translator_mock"),
		workingLang: workingLang,
	}
}

func (t *MockTranslator) DetectLanguage(ctx context.Context, text string) (string, error) {
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Devanagari, r):
			return "hi", nil
		case unicode.Is(unicode.Oriya, r):
			return "or", nil
		case unicode.Is(unicode.Tamil, r):
			return "ta", nil
		case unicode.Is(unicode.Telugu, r):
			return "te", nil
		case unicode.Is(unicode.Bengali, r):
			return "bn", nil
		}
	}
	return t.workingLang, nil
}

func (t *MockTranslator) TranslateToWorking(ctx context.Context, text string) (string, error) {
	t.logger.DebugContext(ctx, "MockTranslator: translate to working language", "len", len(text))
	return strings.TrimSpace(text), nil
}

func (t *MockTranslator) TranslateFromWorking(ctx context.Context, text string, languageCode string) (string, error) {
	t.logger.DebugContext(ctx, "MockTranslator: translate from working language", "target", languageCode)
	return "[" + languageCode + "] " + text, nil
}
