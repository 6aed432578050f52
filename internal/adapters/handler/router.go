package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/auth"
	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/middleware"
)

// ServiceRole may post notifications.
const ServiceRole = auth.ServiceRole

type RouterConfig struct {
	Development    bool
	AllowedOrigins []string
	Logger         *zap.Logger

	Auth        *middleware.AuthMiddleware
	Layout      *LayoutHandler
	ClientState *ClientStateHandler
	Session     *AuthHandler
	Push        *PushHandler
	Health      *HealthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Development, cfg.Logger))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.Metrics)
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	// Health endpoints (OpenShift compatible)
	r.Get("/health", cfg.Health.Health)
	r.Get("/health/ready", cfg.Health.Ready)
	r.Get("/health/live", cfg.Health.Live)
	r.Handle("/metrics", promhttp.Handler())

	r.With(cfg.Auth.WithCredentials).Get("/apps/{app}/layout/{scope}", cfg.Layout.Resolve)

	r.Group(func(r chi.Router) {
		r.Use(cfg.Auth.RequireAuth)
		r.Get("/client-state", cfg.ClientState.Get)
		r.Put("/client-state", cfg.ClientState.Put)
		r.Post("/logout", cfg.Session.Logout)
	})

	r.With(func(next http.Handler) http.Handler {
		return cfg.Auth.RequireRole([]string{ServiceRole}, next)
	}).Post("/notifications", cfg.Push.Send)
	r.Post("/push/click", cfg.Push.Click)

	return r
}
