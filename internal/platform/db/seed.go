package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/config"
)

// Seed creates the bootstrap admin and super admin accounts when they are
// configured and missing. Existing accounts are left untouched.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureUser(ctx, pool, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword, auth.RoleAdmin); err != nil {
		return err
	}
	return ensureUser(ctx, pool, "Super Administrator", cfg.SeedSuperAdminEmail, cfg.SeedSuperAdminPassword, auth.RoleSuperAdmin)
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, name, email, password, role string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		name = email
	}
	if err := pool.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, name, email, hash, role).Scan(&id); err != nil {
		return err
	}
	slog.Info("seeded user", "userId", id, "role", role)
	return nil
}
