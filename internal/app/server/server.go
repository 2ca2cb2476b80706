package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/employees"
	"hrportal/internal/domain/notifications"
	"hrportal/internal/domain/performance"
	"hrportal/internal/domain/projects"
	"hrportal/internal/domain/reports"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/crypto"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/jobs"
	"hrportal/internal/platform/locker"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/platform/ratelimit"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	employeeshandler "hrportal/internal/transport/http/handlers/employees"
	notificationshandler "hrportal/internal/transport/http/handlers/notifications"
	performancehandler "hrportal/internal/transport/http/handlers/performance"
	projectshandler "hrportal/internal/transport/http/handlers/projects"
	reportshandler "hrportal/internal/transport/http/handlers/reports"
	"hrportal/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Metrics *metrics.Collector
	Jobs    *jobs.Service
	Router  http.Handler
}

// New connects to the backing stores, prepares the schema when configured
// and builds the HTTP router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app := &App{Config: cfg, DB: pool, Metrics: metrics.New()}
	app.Jobs = NewJobs(pool, cfg)

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	if cfg.RedisURL != "" {
		rdb, err := locker.Connect(ctx, cfg.RedisURL)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Redis = rdb
	}

	router, err := app.routes()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Router = router
	return app, nil
}

func (a *App) routes() (http.Handler, error) {
	cfg := a.Config

	cipher, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("data encryption key: %w", err)
	}
	if !cipher.Configured() {
		slog.Warn("DATA_ENCRYPTION_KEY not set; MFA secrets are stored unencrypted")
	}

	perms := auth.NewStaticPermissions()
	idem := middleware.NewIdempotencyStore(a.DB)
	notifySvc := notifications.New(notifications.NewStore(a.DB))
	authSvc := auth.NewService(auth.NewStore(a.DB), cipher, cfg.JWTSecret, cfg.TokenTTL, cfg.MFAIssuer)
	employeeSvc := employees.NewService(employees.NewStore(a.DB))
	projectSvc := projects.NewService(projects.NewStore(a.DB), notifySvc)
	reportSvc := reports.NewService(reports.NewStore(a.DB))

	perfOpts := []performance.Option{performance.WithNotifier(notifySvc)}
	if a.Redis != nil {
		perfOpts = append(perfOpts, performance.WithLocker(countingLocker{
			next:    locker.NewRedis(a.Redis, cfg.RecordLockTTL),
			metrics: a.Metrics,
		}))
	}
	perfSvc := performance.NewService(performance.NewStore(a.DB), perfOpts...)

	var limitOpts []middleware.RateLimitOption
	if a.Redis != nil {
		limitOpts = append(limitOpts, middleware.WithCounter(ratelimit.NewRedis(a.Redis)))
	}

	var recorder middleware.RequestRecorder
	if cfg.MetricsEnabled {
		recorder = a.Metrics
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Logger(recorder))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Auth(cfg.JWTSecret, authSvc))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, limitOpts...))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute, limitOpts...))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if a.Redis != nil {
			if err := a.Redis.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	authHandler := authhandler.NewHandler(authSvc)
	router.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			authHandler.RegisterRoutes(r)
			employeeshandler.NewHandler(employeeSvc, perms, idem).RegisterRoutes(r)
			performancehandler.NewHandler(perfSvc, perms, employeeSvc, idem).RegisterRoutes(r)
			projectshandler.NewHandler(projectSvc, perms, idem).RegisterRoutes(r)
			notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
			reportshandler.NewHandler(reportSvc, a.Metrics, perms).RegisterRoutes(r)
		})
	})

	return router, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	a.Jobs.Start(gctx)
	g.Go(func() error {
		slog.Info("hr portal listening", "addr", a.Config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Warn("redis close failed", "err", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// NewJobs builds the maintenance worker for the given pool.
func NewJobs(pool *pgxpool.Pool, cfg config.Config) *jobs.Service {
	return jobs.New(jobs.NewStore(pool), jobs.Options{
		Interval:              cfg.MaintenanceInterval,
		IdempotencyTTL:        cfg.IdempotencyKeyTTL,
		NotificationRetention: cfg.NotificationRetention,
	})
}

type countingLocker struct {
	next    performance.Locker
	metrics *metrics.Collector
}

func (l countingLocker) Lock(ctx context.Context, key string) (func(), error) {
	release, err := l.next.Lock(ctx, key)
	if err != nil {
		l.metrics.LockFailed()
	}
	return release, err
}
