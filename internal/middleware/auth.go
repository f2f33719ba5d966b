package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/pkg/utils"
)

type sessionKey struct{}

// SessionVerifier checks a bearer token against the live session.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*models.Session, error)
}

// RequireSession rejects requests without a valid bearer token. EventSource
// clients cannot set headers, so the token is also read from ?access_token.
func RequireSession(v SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				utils.Error(w, apperrors.Unauthorized("login required"))
				return
			}

			session, err := v.Verify(r.Context(), token)
			if err != nil {
				if apiErr, ok := apperrors.As(err); ok {
					utils.Error(w, apiErr)
					return
				}
				utils.InternalError(w, "failed to verify session")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session attached by RequireSession.
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*models.Session)
	return session, ok && session != nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(r.URL.Query().Get("access_token"))
}
