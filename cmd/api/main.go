// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/user-backend/internal/admin"
	"github.com/carterperez-dev/templates/user-backend/internal/aspect"
	"github.com/carterperez-dev/templates/user-backend/internal/auth"
	"github.com/carterperez-dev/templates/user-backend/internal/config"
	"github.com/carterperez-dev/templates/user-backend/internal/core"
	"github.com/carterperez-dev/templates/user-backend/internal/health"
	"github.com/carterperez-dev/templates/user-backend/internal/logging"
	"github.com/carterperez-dev/templates/user-backend/internal/middleware"
	"github.com/carterperez-dev/templates/user-backend/internal/server"
	"github.com/carterperez-dev/templates/user-backend/internal/user"
	"github.com/carterperez-dev/templates/user-backend/internal/validation"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("genkeys", false, "write a new ES256 key pair to the configured paths and exit")
	flag.Parse()

	if err := run(*configPath, *genKeys); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string, genKeys bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if genKeys {
		if err := auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
			return fmt.Errorf("generate keys: %w", err)
		}
		fmt.Printf("wrote %s and %s\n", cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
		return nil
	}

	console := logging.NewConsoleHandler(os.Stdout, cfg.Log)
	logger := slog.New(console)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("failed to initialize telemetry, tracing locally only", "error", err)
		telemetry = core.NewLocalTelemetry(cfg.Otel.ServiceName, cfg.App)
	} else if telemetry.Exporting() {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("database migrated")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	sink, sinkCloser, err := logging.NewOperationSink(cfg.Log, console, db.DB)
	if err != nil {
		return err
	}
	logger.Info("operation log sink ready",
		"file", cfg.Log.FilePath,
		"table", cfg.Log.TableSink,
	)

	tokens, err := auth.NewTokenIssuer(cfg.JWT)
	if err != nil {
		return err
	}
	if tokens.HasSigningKey() {
		logger.Info("token issuer initialized",
			"algorithm", "ES256",
			"key_id", tokens.KeyID(),
		)
	} else {
		logger.Warn("no signing key configured, logins will fail")
	}

	pipeline := aspect.NewPipeline(sink,
		aspect.WithThreshold(cfg.Aspect.PerformanceThreshold),
	)
	engine := validation.NewEngine()
	tracing := aspect.Tracing(telemetry.OperationTracer())

	userSvc := user.NewService(user.NewStore(db.DB), pipeline, engine, tracing)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(userSvc.AuthProvider(), tokens, pipeline, engine,
		auth.WithCounter(redis),
		auth.WithAspects(tracing),
	)
	authHandler := auth.NewHandler(authSvc)

	healthHandler := health.NewHandler(
		health.Check{Name: "database", Checker: db},
		health.Check{Name: "schema", Checker: health.CheckFunc(db.CheckSchema)},
		health.Check{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Claims:     userSvc,
		Counters:   redis,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.GlobalLimiter(redis.Client, cfg.RateLimit, logger).Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", tokens.JWKSHandler())

	authenticator := middleware.Authenticator(tokens)
	adminOnly := middleware.RequireAdmin
	loginLimiter := middleware.LoginLimiter(redis.Client, cfg.RateLimit, logger).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, loginLimiter)
		userHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := sinkCloser.Close(); err != nil {
		logger.Error("operation log sink close error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}
