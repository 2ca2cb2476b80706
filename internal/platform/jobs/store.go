package jobs

import (
	"context"
	"time"

	"hrportal/internal/platform/querier"
)

// Store is the persistence used by maintenance jobs.
type Store interface {
	StartRun(ctx context.Context, jobType string) (string, error)
	FinishRun(ctx context.Context, runID, status string, details []byte) error
	PurgeSessions(ctx context.Context, now time.Time) (int64, error)
	PurgeIdempotencyKeys(ctx context.Context, before time.Time) (int64, error)
	PurgeReadNotifications(ctx context.Context, before time.Time) (int64, error)
}

type PGStore struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) StartRun(ctx context.Context, jobType string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, 'running')
    RETURNING id
  `, jobType).Scan(&id)
	return id, err
}

func (s *PGStore) FinishRun(ctx context.Context, runID, status string, details []byte) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, details, runID)
	return err
}

// PurgeSessions drops sessions that expired or were revoked before now.
func (s *PGStore) PurgeSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM sessions
    WHERE expires_at < $1 OR revoked_at < $1
  `, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PGStore) PurgeIdempotencyKeys(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `DELETE FROM idempotency_keys WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PGStore) PurgeReadNotifications(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM notifications
    WHERE read_at IS NOT NULL AND read_at < $1
  `, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
