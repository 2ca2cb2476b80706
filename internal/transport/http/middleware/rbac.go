package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"hrportal/internal/transport/http/api"
)

type PermissionStore interface {
	HasPermission(ctx context.Context, role, permission string) (bool, error)
}

// RequirePermission admits the request only when the caller's role holds
// permission. Anonymous callers get 401, other roles 403.
func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
				return
			}

			allowed, err := store.HasPermission(r.Context(), user.Role, permission)
			switch {
			case err != nil:
				slog.ErrorContext(r.Context(), "permission check failed", "permission", permission, "role", user.Role, "err", err)
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", requestID)
			case !allowed:
				slog.DebugContext(r.Context(), "permission denied", "permission", permission, "role", user.Role, "userId", user.UserID)
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
