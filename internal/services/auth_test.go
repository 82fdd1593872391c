package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inviteticketing/internal/domain"
)

type stubIssuer struct {
	subject string
	expiry  time.Duration
	token   string
	err     error
}

func (s *stubIssuer) Issue(subject string, expiry time.Duration) (string, error) {
	s.subject = subject
	s.expiry = expiry
	return s.token, s.err
}

func TestAuthLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("door-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	issuer := &stubIssuer{token: "jwt-token"}
	svc := NewAuthService(string(hash), issuer, 0)

	token, err := svc.Login(context.Background(), "door-secret")
	require.NoError(t, err)
	require.Equal(t, "jwt-token", token)
	require.Equal(t, "staff", issuer.subject)
	require.Equal(t, 12*time.Hour, issuer.expiry)
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("door-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := NewAuthService(string(hash), &stubIssuer{token: "jwt-token"}, time.Hour)

	_, err = svc.Login(context.Background(), "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthLogin_NoHashConfigured(t *testing.T) {
	svc := NewAuthService("", &stubIssuer{token: "jwt-token"}, time.Hour)

	_, err := svc.Login(context.Background(), "anything")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthLogin_IssuerError(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("door-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := NewAuthService(string(hash), &stubIssuer{err: errors.New("bad key")}, time.Hour)

	_, err = svc.Login(context.Background(), "door-secret")
	require.Error(t, err)
}
