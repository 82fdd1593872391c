package services

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"inviteticketing/internal/domain"
)

type authService struct {
	passwordHash string
	issuer       domain.TokenIssuer
	tokenExpiry  time.Duration
}

// NewAuthService authenticates door/admin staff against the single configured
// bcrypt password hash and issues access tokens.
func NewAuthService(passwordHash string, issuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AuthService {
	if tokenExpiry == 0 {
		tokenExpiry = 12 * time.Hour
	}
	return &authService{passwordHash: passwordHash, issuer: issuer, tokenExpiry: tokenExpiry}
}

func (s *authService) Login(ctx context.Context, password string) (string, error) {
	if s.passwordHash == "" {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.issuer.Issue("staff", s.tokenExpiry)
}
