package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// E.164-ish: optional leading +, 10 to 15 digits, no leading zero.
var phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{9,14}$`)

// ValidatePhoneNumber reports whether s looks like a routable subscriber
// number. Events whose sender fails this check are dropped during
// normalization.
func ValidatePhoneNumber(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}

// SanitizeText trims surrounding whitespace, strips control characters and
// caps the result at maxLen runes. maxLen <= 0 means no cap.
func SanitizeText(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if maxLen > 0 {
		runes := []rune(out)
		if len(runes) > maxLen {
			out = string(runes[:maxLen])
		}
	}
	return out
}
