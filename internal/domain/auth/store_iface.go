package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindUserByEmail(ctx context.Context, email string) (AuthUser, error)
	FindUserByID(ctx context.Context, userID string) (AuthUser, error)
	GetProfile(ctx context.Context, userID string) (Profile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error
	CreateSession(ctx context.Context, userID, tokenHash string, expires time.Time) error
	SessionValid(ctx context.Context, userID, tokenHash string) (bool, error)
	RevokeSession(ctx context.Context, userID, tokenHash string) error
	UpdateLastLogin(ctx context.Context, userID string) error
	UpdateMFASecret(ctx context.Context, userID string, secretEnc []byte) error
	SetMFAEnabled(ctx context.Context, userID string, enabled bool) error
}
