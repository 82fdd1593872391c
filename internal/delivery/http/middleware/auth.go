package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

type contextKey string

const staffSubjectKey contextKey = "staffSubject"

// SetStaffSubject returns a context with the staff token subject set.
func SetStaffSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, staffSubjectKey, subject)
}

// StaffSubjectFromContext returns the authenticated staff subject, if present.
func StaffSubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(staffSubjectKey).(string)
	return s, ok
}

// RequireStaff returns a wrapper that validates the Bearer token and sets the
// staff subject in the request context. If the token is missing or invalid, it
// responds with 401 and does not call next.
func RequireStaff(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			subject, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetStaffSubject(r.Context(), subject))
			next(w, r)
		}
	}
}
