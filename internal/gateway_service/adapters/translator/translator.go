package translator

import "context"

// Translator detects the language of user text and translates it to and
// from the pipeline's working language. Implementations must be safe for
// concurrent use.
//
// Callers are expected to skip TranslateToWorking/TranslateFromWorking
// entirely when the detected language already equals the working language;
// implementations are not required to short-circuit the identity case.
type Translator interface {
	DetectLanguage(ctx context.Context, text string) (string, error)
	TranslateToWorking(ctx context.Context, text string) (string, error)
	TranslateFromWorking(ctx context.Context, text string, languageCode string) (string, error)
}
