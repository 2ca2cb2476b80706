package reports

import (
	"context"
	"fmt"

	"hrportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CountEmployees(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM users")
}

func (s *Store) CountProjects(ctx context.Context, userID, status string) (int, error) {
	return s.count(ctx, `
    SELECT COUNT(1) FROM projects
    WHERE ($1 = '' OR created_by::text = $1 OR $1 = ANY(assigned_to::text[]))
      AND ($2 = '' OR status = $2)
  `, userID, status)
}

func (s *Store) CountKPIs(ctx context.Context, userID, status string) (int, error) {
	return s.count(ctx, `
    SELECT COUNT(1) FROM kpis
    WHERE ($1 = '' OR assigned_to::text = $1)
      AND ($2 = '' OR status = $2)
  `, userID, status)
}

func (s *Store) CountAppraisals(ctx context.Context, userID, status string) (int, error) {
	return s.count(ctx, `
    SELECT COUNT(1) FROM appraisals
    WHERE ($1 = '' OR employee_id::text = $1)
      AND ($2 = '' OR status = $2)
  `, userID, status)
}

func (s *Store) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM notifications WHERE user_id::text = $1 AND read_at IS NULL", userID)
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("dashboard count: %w", err)
	}
	return n, nil
}
