package tts

import "context"

// Synthesizer turns reply text into a voice reference (a URL or handle the
// delivery channel can attach). Synthesis failures are non-fatal: the
// orchestrator logs them and continues with text-only delivery.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, languageCode string) (string, error)
}
