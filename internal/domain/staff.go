package domain

import (
	"context"
	"time"
)

// TokenIssuer signs staff access tokens.
type TokenIssuer interface {
	Issue(subject string, expiry time.Duration) (string, error)
}

// TokenVerifier validates a staff token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// AuthService authenticates door/admin staff against the configured credential.
type AuthService interface {
	Login(ctx context.Context, password string) (token string, err error)
}
