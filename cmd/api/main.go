package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/auth"
	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/cache"
	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/handler"
	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/middleware"
	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/repository"
	"github.com/AchilleasB/assignx/access-gate-service/internal/config"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/services"
	"github.com/AchilleasB/assignx/access-gate-service/internal/logging"
)

const clientStateTTL = 30 * 24 * time.Hour

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not reachable at startup, circuit breaker will guard calls", zap.Error(err))
	}

	redisBreaker := config.NewCircuitBreaker(config.BreakerRedis, logger)
	pgBreaker := config.NewCircuitBreaker(config.BreakerPostgres, logger)

	provider := auth.NewSupabaseProvider(auth.SupabaseOptions{
		BaseURL:    cfg.SupabaseURL,
		AnonKey:    cfg.SupabaseAnonKey,
		JWTSecret:  cfg.SupabaseJWTSecret,
		Audience:   cfg.SupabaseJWTAudience,
		RemoteUser: cfg.RemoteUserCheck,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}, config.NewCircuitBreaker(config.BreakerGoTrue, logger))

	identityService := services.NewIdentityService(
		provider,
		cache.NewRevocationStore(redisClient, redisBreaker),
		logger,
	)

	tables := make(map[domain.App]config.TableConfig, len(cfg.Apps))
	routes := make(map[domain.App]domain.AppRoutes, len(cfg.Apps))
	for app, c := range cfg.Apps {
		tables[app] = c.Tables
		routes[app] = c.Routes
	}

	statusService := services.NewStatusService(repository.NewSQLRepository(db, tables, pgBreaker), logger)
	display := services.NewDisplayBuilder(cfg.Display.DefaultName, cfg.Display.DefaultAvatarURL)
	layoutService := services.NewLayoutService(identityService, statusService, display, routes, logger)

	clientStates := services.NewClientStateService(cache.NewClientStateStore(redisClient, redisBreaker, clientStateTTL))
	pushService := services.NewPushNotificationService(repository.NewOutboxRepository(db, pgBreaker), logger)

	router := handler.NewRouter(handler.RouterConfig{
		Development:    cfg.Development(),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
		Auth:           middleware.NewAuthMiddleware(identityService, cfg.AccessTokenCookie, cfg.RefreshTokenCookie, logger),
		Layout:         handler.NewLayoutHandler(layoutService, logger),
		ClientState:    handler.NewClientStateHandler(clientStates, logger),
		Session:        handler.NewAuthHandler(identityService, clientStates, cfg.AccessTokenCookie, cfg.RefreshTokenCookie, logger),
		Push:           handler.NewPushHandler(pushService, cfg.PublicOrigin, logger),
		Health:         handler.NewHealthHandler(db, redisClient),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
