package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
)

// SessionChecker confirms that the session behind a token has not been
// revoked. A nil checker trusts the signature alone.
type SessionChecker interface {
	SessionActive(ctx context.Context, userID, sessionID string) (bool, error)
}

// Auth attaches the token's user to the context. Requests without a valid
// token pass through anonymous; RequireAuth decides whether that is allowed.
func Auth(secret string, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if sessions != nil {
				active, err := sessions.SessionActive(r.Context(), claims.UserID, claims.SessionID)
				if err != nil {
					slog.WarnContext(r.Context(), "session lookup failed", "userId", claims.UserID, "err", err)
					api.Fail(w, http.StatusInternalServerError, "session_error", "session check failed", GetRequestID(r.Context()))
					return
				}
				if !active {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := WithUser(r.Context(), auth.UserContext{
				UserID:    claims.UserID,
				Email:     claims.Email,
				Role:      auth.NormalizeRole(claims.RoleName),
				SessionID: claims.SessionID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
