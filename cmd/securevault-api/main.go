package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/securevault-api/internal/config"
	"github.com/dimitrije/securevault-api/internal/database"
	"github.com/dimitrije/securevault-api/internal/logging"
	"github.com/dimitrije/securevault-api/internal/middleware"
	"github.com/dimitrije/securevault-api/internal/ratelimit"
	"github.com/dimitrije/securevault-api/internal/server"
	"github.com/dimitrije/securevault-api/internal/services"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	hasher, err := services.NewArgon2Hasher(services.DefaultArgon2Config())
	if err != nil {
		return err
	}

	accounts := services.NewAccountStore(db)
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	emailService := services.NewEmailService(cfg.SMTP, logger)
	if !emailService.IsConfigured() {
		logger.Warn("smtp not configured, verification codes will only be logged as skipped")
	}

	identity := services.NewIdentityService(accounts, hasher, services.NewOTPIssuer(), jwtService, emailService, logger)
	vault := services.NewVaultService(db)
	guard := services.NewAccessGuard(jwtService, accounts)

	var limiter middleware.RateLimiter
	if cfg.RateLimit.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, auth rate limiting will fail open", "error", err)
		}
		limiter = ratelimit.NewLimiter(client, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	} else {
		logger.Info("REDIS_URL not set, auth rate limiting disabled")
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: server.NewHandler(server.Deps{
			Config:   cfg,
			Logger:   logger,
			Identity: identity,
			Vault:    vault,
			Guard:    guard,
			Limiter:  limiter,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
