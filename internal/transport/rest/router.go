package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/localboost-backend/internal/config"
	"github.com/heartmarshall/localboost-backend/internal/transport/middleware"
)

// tokenValidator validates access tokens for the auth middleware.
type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error)
}

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Logger   *slog.Logger
	Health   *HealthHandler
	Auth     *AuthHandler
	Cron     *CronHandler
	Schedule *ScheduleHandler
	Tokens   tokenValidator
	Limiter  *middleware.RateLimiter

	CronSecret      string
	RateLimitPerMin int
	CORS            config.CORSConfig
}

// NewRouter builds the HTTP handler tree with the middleware chain applied.
// Admin authorization is checked per-handler; the Auth middleware only
// resolves the token into context identity.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", deps.Health.Health)
	mux.HandleFunc("GET /health/live", deps.Health.Live)
	mux.HandleFunc("GET /health/ready", deps.Health.Ready)

	mux.HandleFunc("POST /auth/login", deps.Auth.Login)

	cronChain := middleware.Chain(middleware.CronSecret(deps.CronSecret))
	mux.Handle("POST /cron/dispatch", cronChain(http.HandlerFunc(deps.Cron.Dispatch)))

	mux.HandleFunc("POST /admin/schedule/clients/{id}/dispatch", deps.Schedule.Dispatch)
	mux.HandleFunc("GET /admin/schedule/clients/{id}/status", deps.Schedule.Status)
	mux.HandleFunc("GET /admin/schedule/capacity", deps.Schedule.Capacity)
	mux.HandleFunc("GET /admin/schedule/runs", deps.Schedule.RunLogs)
	mux.HandleFunc("PATCH /admin/clients/{id}/auto-schedule", deps.Schedule.UpdateAutoSchedule)

	return middleware.Chain(
		middleware.Recovery(deps.Logger),
		middleware.RequestID,
		middleware.Logger(deps.Logger),
		middleware.CORS(deps.CORS),
		deps.Limiter.Limit(deps.RateLimitPerMin),
		middleware.Auth(deps.Tokens),
	)(mux)
}
