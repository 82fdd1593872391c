package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"inviteticketing/internal/domain"
)

type hmacVerifier struct {
	secret []byte
}

// NewHMACVerifier returns a WebhookVerifier that checks HMAC-SHA256 hex
// signatures computed over the raw webhook body.
func NewHMACVerifier(secret string) domain.WebhookVerifier {
	return &hmacVerifier{secret: []byte(secret)}
}

func (v *hmacVerifier) Verify(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	// Constant-time compare; hex decoding failures simply never match.
	return hmac.Equal([]byte(expected), []byte(signature))
}
