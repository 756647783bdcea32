package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"railbook/api/routes"
	"railbook/internal/notifications"
	"railbook/internal/session"
	"railbook/internal/shared/config"
	"railbook/internal/shared/database"
	"railbook/internal/shared/metrics"
	"railbook/pkg/cache"
	"railbook/pkg/logger"
	"railbook/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// Rebuild the default logger now that the mode and level are known
	appLogger = logger.NewWithWriter(os.Stdout, cfg.LogLevel)
	logger.SetDefault(appLogger)

	appLogger.Info("Starting railbook",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("commit", GitCommit),
	)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	db, err := database.InitDB(rootCtx, cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	store, err := newSessionStore(rootCtx, cfg, db)
	if err != nil {
		appLogger.Error("failed to create session store", slog.Any("error", err))
		os.Exit(1)
	}
	appLogger.Info("Session store ready",
		slog.String("backend", cfg.Session.Backend),
		slog.Duration("ttl", cfg.Session.TTL),
	)

	publisher := newPublisher(cfg, appLogger)
	defer func() {
		if err := publisher.Close(); err != nil {
			appLogger.Error("Error closing notification publisher", slog.Any("error", err))
		}
	}()

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.Redis, &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			PublicRequests:  cfg.RateLimit.PublicRequests,
			AuthRequests:    cfg.RateLimit.AuthRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			PaymentRequests: cfg.RateLimit.PaymentRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			HealthRequests:  cfg.RateLimit.HealthRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	router, err := setupRouter(cfg, db, store, publisher, rateLimiter)
	if err != nil {
		appLogger.Error("failed to set up routes", slog.Any("error", err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("api_base", cfg.GetAPIBasePath()),
			slog.Bool("redis", db.Redis != nil),
			slog.Bool("kafka", cfg.Kafka.Enabled),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	rootCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

// newSessionStore builds the configured backend and starts its expiry loop
func newSessionStore(ctx context.Context, cfg *config.Config, db *database.DB) (session.Store, error) {
	switch cfg.Session.Backend {
	case "memory", "":
		store := session.NewMemoryStore(cfg.Session.TTL)
		go store.RunSweeper(ctx, time.Minute)
		return store, nil

	case "redis":
		return session.NewRedisStore(cache.NewService(db.Redis), cfg.Session.TTL), nil

	case "postgres":
		store := session.NewGormStore(db.PostgreSQL, cfg.Session.TTL)
		go purgeExpiredSessions(ctx, store, 10*time.Minute)
		return store, nil

	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func purgeExpiredSessions(ctx context.Context, store *session.GormStore, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.GetDefault().ErrorWithContext(ctx, "Failed to purge expired sessions", err, nil)
				continue
			}
			if n > 0 {
				logger.GetDefault().InfoWithContext(ctx, "Purged expired sessions", map[string]interface{}{"count": n})
			}
		}
	}
}

// newPublisher prefers Kafka and falls back to logging confirmations
func newPublisher(cfg *config.Config, appLogger *logger.Logger) notifications.Publisher {
	if !cfg.Kafka.Enabled {
		return notifications.NewLogPublisher(appLogger)
	}

	producerCfg := notifications.DefaultProducerConfig()
	producerCfg.Brokers = cfg.Kafka.Brokers
	producerCfg.Topic = cfg.Kafka.Topic

	publisher, err := notifications.NewKafkaPublisher(producerCfg)
	if err != nil {
		appLogger.Error("Failed to connect Kafka producer, logging notifications instead", slog.Any("error", err))
		return notifications.NewLogPublisher(appLogger)
	}
	appLogger.Info("Kafka notification publisher ready", slog.String("topic", producerCfg.Topic))
	return publisher
}

func setupRouter(cfg *config.Config, db *database.DB, store session.Store, publisher notifications.Publisher, rateLimiter *ratelimit.RateLimiter) (*gin.Engine, error) {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())
	engine.Use(metrics.Middleware())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", cfg.Session.HeaderName},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", cfg.Session.HeaderName, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	appRouter := routes.NewRouter(cfg, db, store, publisher)
	if err := appRouter.SetupRoutes(engine); err != nil {
		return nil, err
	}
	return engine, nil
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
