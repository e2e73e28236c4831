package app

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const signaturePrefix = "sha256="

// VerifySignature checks the webhook HMAC-SHA256 signature header against
// the raw request body. The header format is "sha256=<hex>".
//
// An empty sharedSecret bypasses verification entirely; that is a
// development-mode escape and callers must log loudly when relying on it.
// Any malformed input yields false, never a panic or error; the caller
// treats false as unauthorized and discards the payload.
func VerifySignature(rawBody []byte, headerSignature string, sharedSecret string) bool {
	if sharedSecret == "" {
		return true
	}
	if !strings.HasPrefix(headerSignature, signaturePrefix) {
		return false
	}

	provided, err := hex.DecodeString(strings.TrimPrefix(headerSignature, signaturePrefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(sharedSecret))
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	return hmac.Equal(provided, expected)
}
