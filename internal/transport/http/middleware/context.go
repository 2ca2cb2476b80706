package middleware

import (
	"context"

	"hrportal/internal/domain/auth"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}

// WithUser is used by Auth and by handler tests.
func WithUser(ctx context.Context, user auth.UserContext) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}
