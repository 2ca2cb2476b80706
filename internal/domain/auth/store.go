package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, role, password_hash, mfa_enabled, mfa_secret_enc
    FROM users
    WHERE lower(email) = lower($1)
  `, email).Scan(&out.ID, &out.Name, &out.Email, &out.Role, &out.PasswordHash, &out.MFAEnabled, &out.MFASecretEnc)
	if errors.Is(err, pgx.ErrNoRows) {
		return AuthUser{}, ErrUserNotFound
	}
	return out, err
}

func (s *Store) FindUserByID(ctx context.Context, userID string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, role, password_hash, mfa_enabled, mfa_secret_enc
    FROM users
    WHERE id = $1
  `, userID).Scan(&out.ID, &out.Name, &out.Email, &out.Role, &out.PasswordHash, &out.MFAEnabled, &out.MFASecretEnc)
	if errors.Is(err, pgx.ErrNoRows) {
		return AuthUser{}, ErrUserNotFound
	}
	return out, err
}

func (s *Store) GetProfile(ctx context.Context, userID string) (Profile, error) {
	var out Profile
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, role, department, position, mfa_enabled, last_login, created_at
    FROM users
    WHERE id = $1
  `, userID).Scan(&out.ID, &out.Name, &out.Email, &out.Role, &out.Department, &out.Position, &out.MFAEnabled, &out.LastLogin, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrUserNotFound
	}
	return out, err
}

func (s *Store) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users
    SET name = COALESCE($1, name),
        department = COALESCE($2, department),
        position = COALESCE($3, position),
        updated_at = now()
    WHERE id = $4
  `, update.Name, update.Department, update.Position, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) CreateSession(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (user_id, token_hash, expires_at)
    VALUES ($1,$2,$3)
  `, userID, tokenHash, expires)
	return err
}

func (s *Store) SessionValid(ctx context.Context, userID, tokenHash string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM sessions
    WHERE user_id = $1 AND token_hash = $2 AND expires_at > now() AND revoked_at IS NULL
  `, userID, tokenHash).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) RevokeSession(ctx context.Context, userID, tokenHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE user_id = $1 AND token_hash = $2", userID, tokenHash)
	return err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func (s *Store) UpdateMFASecret(ctx context.Context, userID string, secretEnc []byte) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET mfa_secret_enc = $1, mfa_enabled = false WHERE id = $2", secretEnc, userID)
	return err
}

func (s *Store) SetMFAEnabled(ctx context.Context, userID string, enabled bool) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET mfa_enabled = $1 WHERE id = $2", enabled, userID)
	return err
}
