package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTTokens_IssueAndVerify(t *testing.T) {
	tokens := NewJWTTokens("test-secret")

	signed, err := tokens.Issue("staff", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	subject, err := tokens.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "staff", subject)
}

func TestJWTTokens_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTTokens("secret-a")
	verifier := NewJWTTokens("secret-b")

	signed, err := issuer.Issue("staff", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	require.Error(t, err)
}

func TestJWTTokens_RejectsExpired(t *testing.T) {
	tokens := NewJWTTokens("test-secret")

	signed, err := tokens.Issue("staff", -time.Minute)
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	require.Error(t, err)
}

func TestJWTTokens_RejectsGarbage(t *testing.T) {
	tokens := NewJWTTokens("test-secret")
	_, err := tokens.Verify("not.a.token")
	require.Error(t, err)
}
