// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the vidtube HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to the credential store (MongoDB, or PostgreSQL plus migrations).
//  4. Connect to Redis.
//  5. Build the token, media and mail gateways.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/vidtube/internal/api"
	"github.com/taibuivan/vidtube/internal/platform/config"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/mail"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/metrics"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	"github.com/taibuivan/vidtube/internal/platform/migration"
	mongostore "github.com/taibuivan/vidtube/internal/platform/mongodb"
	pgstore "github.com/taibuivan/vidtube/internal/platform/postgres"
	redisstore "github.com/taibuivan/vidtube/internal/platform/redis"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/users/account"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/internal/users/channel"
)

// stores holds the repositories for the selected driver.
type stores struct {
	users    auth.UserRepository
	accounts account.AccountRepository
	channels channel.Repository
	check    api.Check
	close    func()
}

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[vidtube] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
	)

	// Root context for startup. A deadline catches misconfiguration quickly.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Credential Store ───────────────────────────────────────────────
	store, err := openStore(startupCtx, cfg, log)
	must(log, err, "open credential store")
	defer store.close()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Gateways ───────────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(sec.TokenConfig{
		Access:  sec.KeyConfig{Secret: cfg.AccessTokenSecret, TTL: cfg.AccessTokenExpiry},
		Refresh: sec.KeyConfig{Secret: cfg.RefreshTokenSecret, TTL: cfg.RefreshTokenExpiry},
		Issuer:  constants.AuthIssuer,
	})
	must(log, err, "initialize token service")

	var uploader media.Uploader = media.DisabledUploader{}
	if cfg.MediaEnabled() {
		uploader, err = media.NewS3Uploader(startupCtx, media.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
			KeyPrefix:     cfg.S3KeyPrefix,
		})
		must(log, err, "initialize object storage")
	} else {
		log.Warn("object_storage_disabled")
	}

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.MailEnabled() {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	registry := metrics.NewRegistry()

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(
		store.users,
		auth.NewResetTokenRepository(rdb),
		tokenService,
		uploader,
		mailer,
		registry,
		cfg.ResetURLBase,
	)
	accountService := account.NewService(store.accounts, uploader)
	channelService := channel.NewService(store.channels)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		StoreName:  cfg.StoreDriver,
		CheckStore: store.check,
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serveCtx, stopServing := context.WithCancel(context.Background())
	defer stopServing()

	limiter := middleware.NewRateLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)
	go limiter.Cleanup(serveCtx)

	server := api.NewServer(cfg, log, api.Middleware{
		Verifier:    tokenService,
		RateLimiter: limiter,
		Instrument:  registry.Middleware,
	}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   registry.Handler(),
		Users: []api.RouteMounter{
			auth.NewHandler(authService),
			account.NewHandler(accountService),
			channel.NewHandler(channelService),
		},
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
	}

	log.Info("server_stopped_cleanly")
}

// openStore connects the configured driver and builds its repositories.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &stores{
			users:    auth.NewUserRepository(pool),
			accounts: account.NewAccountRepository(pool),
			channels: channel.NewPostgresRepository(pool),
			check: func(ctx context.Context) error {
				return pgstore.Ping(ctx, pool)
			},
			close: func() {
				log.Info("closing_postgres_pool")
				pool.Close()
			},
		}, nil

	default:
		client, database, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return nil, err
		}
		users := auth.NewMongoUserRepository(database)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}
		return &stores{
			users:    users,
			accounts: account.NewMongoAccountRepository(database),
			channels: channel.NewMongoRepository(database),
			check: func(ctx context.Context) error {
				return mongostore.Ping(ctx, client)
			},
			close: func() {
				log.Info("closing_mongodb_client")
				if err := client.Disconnect(context.Background()); err != nil {
					log.Error("mongodb_disconnect_error", slog.Any("error", err))
				}
			},
		}, nil
	}
}

// newLogger builds the JSON logger with the global app attribute.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
