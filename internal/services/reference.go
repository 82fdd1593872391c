package services

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// referenceDigits is the length of the random suffix after the reference prefix.
const referenceDigits = 6

// ParseReference extracts a booking reference candidate from a scanned code.
// The input is upper-cased and trimmed. If it contains the known token (for
// example a ticket-URL prefix), only the substring between the token and the
// next separator is the candidate; otherwise the whole normalized input is
// used verbatim.
func ParseReference(input, token string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	token = strings.ToUpper(token)
	if token == "" {
		return s
	}
	idx := strings.Index(s, token)
	if idx < 0 {
		return s
	}
	rest := s[idx+len(token):]
	if sep := strings.IndexAny(rest, "-/| "); sep >= 0 {
		rest = rest[:sep]
	}
	return rest
}

// generateReference produces prefix + referenceDigits random digits.
// Callers are expected to collision-check against the store and retry.
func generateReference(prefix string) (string, error) {
	ten := big.NewInt(10)
	b := make([]byte, referenceDigits)
	for i := range b {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b[i] = byte('0' + n.Int64())
	}
	return prefix + string(b), nil
}
