package translator

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock() *MockTranslator {
	return NewMockTranslator(slog.New(slog.NewTextHandler(io.Discard, nil)), "en")
}

func TestMockTranslator_DetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "hindi", text: "मुझे बुखार है", expected: "hi"},
		{name: "odia", text: "ମୋର ଜ୍ୱର ଅଛି", expected: "or"},
		{name: "tamil", text: "எனக்கு காய்ச்சல்", expected: "ta"},
		{name: "telugu", text: "నాకు జ్వరం", expected: "te"},
		{name: "bengali", text: "আমার জ্বর আছে", expected: "bn"},
		{name: "english falls back to working", text: "I have a fever", expected: "en"},
		{name: "mixed script uses first match", text: "fever मुझे", expected: "hi"},
	}

	m := newMock()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, err := m.DetectLanguage(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lang)
		})
	}
}

func TestMockTranslator_RoundTrip(t *testing.T) {
	m := newMock()

	working, err := m.TranslateToWorking(context.Background(), "  some text  ")
	require.NoError(t, err)
	assert.Equal(t, "some text", working)

	back, err := m.TranslateFromWorking(context.Background(), "Please rest.", "hi")
	require.NoError(t, err)
	assert.Equal(t, "[hi] Please rest.", back)
}
