package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

const (
	JobSessionCleanup      = "session_cleanup"
	JobIdempotencyCleanup  = "idempotency_cleanup"
	JobNotificationCleanup = "notification_cleanup"
)

type Options struct {
	// Interval between scheduled sweeps. Zero disables the scheduler.
	Interval              time.Duration
	IdempotencyTTL        time.Duration
	NotificationRetention time.Duration
}

type Service struct {
	store Store
	opts  Options
	queue chan job
	now   func() time.Time
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(store Store, opts Options) *Service {
	return &Service{
		store: store,
		opts:  opts,
		queue: make(chan job, 32),
		now:   time.Now,
	}
}

// Start runs the worker and, when an interval is set, the sweep scheduler.
// Both stop when ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.opts.Interval > 0 {
		go s.schedule(ctx, s.opts.Interval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

// Sweep runs every cleanup job once, in order, and returns the first error.
func (s *Service) Sweep(ctx context.Context) error {
	for _, j := range s.cleanupJobs() {
		if _, err := s.runJob(ctx, j); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) cleanupJobs() []job {
	jobs := []job{{
		Type: JobSessionCleanup,
		Run: func(ctx context.Context) (any, error) {
			deleted, err := s.store.PurgeSessions(ctx, s.now())
			return map[string]any{"deleted": deleted}, err
		},
	}}
	if s.opts.IdempotencyTTL > 0 {
		jobs = append(jobs, job{
			Type: JobIdempotencyCleanup,
			Run: func(ctx context.Context) (any, error) {
				cutoff := s.now().Add(-s.opts.IdempotencyTTL)
				deleted, err := s.store.PurgeIdempotencyKeys(ctx, cutoff)
				return map[string]any{"deleted": deleted, "cutoff": cutoff}, err
			},
		})
	}
	if s.opts.NotificationRetention > 0 {
		jobs = append(jobs, job{
			Type: JobNotificationCleanup,
			Run: func(ctx context.Context) (any, error) {
				cutoff := s.now().Add(-s.opts.NotificationRetention)
				deleted, err := s.store.PurgeReadNotifications(ctx, cutoff)
				return map[string]any{"deleted": deleted, "cutoff": cutoff}, err
			},
		})
	}
	return jobs
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID, err := s.store.StartRun(ctx, j.Type)
	if err != nil {
		slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.store.FinishRun(ctx, runID, status, detailsJSON); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	slog.Debug("job finished", "jobType", j.Type, "status", status)
	return details, err
}

func (s *Service) schedule(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, j := range s.cleanupJobs() {
				s.Enqueue(j.Type, j.Run)
			}
		}
	}
}
