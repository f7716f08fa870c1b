package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/localboost-backend/internal/adapter/postgres"
	clientrepo "github.com/heartmarshall/localboost-backend/internal/adapter/postgres/client"
	comborepo "github.com/heartmarshall/localboost-backend/internal/adapter/postgres/combo"
	contentrepo "github.com/heartmarshall/localboost-backend/internal/adapter/postgres/content"
	locationrepo "github.com/heartmarshall/localboost-backend/internal/adapter/postgres/location"
	questionrepo "github.com/heartmarshall/localboost-backend/internal/adapter/postgres/question"
	runlogrepo "github.com/heartmarshall/localboost-backend/internal/adapter/postgres/runlog"
	userrepo "github.com/heartmarshall/localboost-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/localboost-backend/internal/adapter/provider/pipeline"
	authpkg "github.com/heartmarshall/localboost-backend/internal/auth"
	"github.com/heartmarshall/localboost-backend/internal/config"
	authsvc "github.com/heartmarshall/localboost-backend/internal/service/auth"
	"github.com/heartmarshall/localboost-backend/internal/service/schedule"
	"github.com/heartmarshall/localboost-backend/internal/transport/middleware"
	"github.com/heartmarshall/localboost-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// repositories and services, and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	scheduleService, authService := buildServices(logger, pool, cfg)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Logger:   logger,
		Health:   rest.NewHealthHandler(pool, BuildVersion()),
		Auth:     rest.NewAuthHandler(authService, logger),
		Cron:     rest.NewCronHandler(scheduleService, cfg.Scheduler.DispatchTimeout, logger),
		Schedule: rest.NewScheduleHandler(scheduleService, logger),
		Tokens:   authService,
		Limiter:  limiter,

		CronSecret:      cfg.Scheduler.CronSecret,
		RateLimitPerMin: cfg.Server.RateLimitPerMin,
		CORS:            cfg.CORS,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// RunDispatchTick executes one hourly tick against the configured database
// and exits. Used by the offline dispatch binary in cron-exec deployments.
func RunDispatchTick(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	scheduleService, _ := buildServices(logger, pool, cfg)

	if cfg.Scheduler.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Scheduler.DispatchTimeout)
		defer cancel()
	}

	summary, err := scheduleService.RunTick(ctx)
	if err != nil {
		return fmt.Errorf("dispatch tick: %w", err)
	}

	logger.Info("dispatch tick finished",
		slog.String("time_slot", summary.TimeSlot),
		slog.Int("processed", summary.Processed),
		slog.Int("successful", summary.Successful),
		slog.Int("failed", summary.Failed),
		slog.Int64("duration_ms", summary.DurationMs),
	)
	return nil
}

func buildServices(logger *slog.Logger, pool *pgxpool.Pool, cfg *config.Config) (*schedule.Service, *authsvc.Service) {
	txm := postgres.NewTxManager(pool)

	clients := clientrepo.New(pool)
	questions := questionrepo.New(pool)
	locations := locationrepo.New(pool)
	combos := comborepo.New(pool)
	content := contentrepo.New(pool)
	runLogs := runlogrepo.New(pool)
	users := userrepo.New(pool)

	pipelineClient := pipeline.NewClient(logger, cfg.Pipeline)

	scheduleService := schedule.NewService(
		logger, clockwork.NewRealClock(),
		clients, questions, locations, combos, content, runLogs,
		txm, pipelineClient, cfg.Scheduler,
	)

	jwtMgr := authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	authService := authsvc.NewService(logger, users, jwtMgr)

	return scheduleService, authService
}
