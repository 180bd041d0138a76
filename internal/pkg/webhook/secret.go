package webhook

import (
	"crypto/subtle"
	"strings"
)

// VerifySharedSecret compares the X-Webhook-Secret header value against the
// configured secret in constant time. Empty configured secrets never match
// so a missing config fails closed.
func VerifySharedSecret(headerValue, configuredSecret string) bool {
	got := strings.TrimSpace(headerValue)
	want := strings.TrimSpace(configuredSecret)
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
