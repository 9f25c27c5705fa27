// Command votingd serves the voting wizard API.
//
// @title                       Voting Wizard API
// @version                     1.0
// @description                 Step-by-step voter verification and ballot casting against simulated backends.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/securevote/voting-wizard/internal/api"
	"github.com/securevote/voting-wizard/internal/api/handler"
	"github.com/securevote/voting-wizard/internal/core/ports"
	"github.com/securevote/voting-wizard/internal/core/service"
	"github.com/securevote/voting-wizard/internal/infrastructure/db/file"
	"github.com/securevote/voting-wizard/internal/infrastructure/db/memory"
	mongodb "github.com/securevote/voting-wizard/internal/infrastructure/db/mongo"
	redisdb "github.com/securevote/voting-wizard/internal/infrastructure/db/redis"
	"github.com/securevote/voting-wizard/internal/infrastructure/queue"
	"github.com/securevote/voting-wizard/internal/pkg/config"
	"github.com/securevote/voting-wizard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "votingd",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("votingd stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, storePinger, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	pingers := map[string]handler.Pinger{"session_store": storePinger}

	events, closeEvents, err := openAuditRepository(ctx, cfg, log, pingers)
	if err != nil {
		return err
	}
	defer closeEvents()

	auditService := service.NewAuditService(events, logger.Component("audit"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, log)
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	verifier, err := service.NewMockVerifier(
		service.DefaultLatency().Scale(cfg.Mock.LatencyScale),
		cfg.Mock.BcryptCost,
		log,
	)
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Auth:      service.NewAuthService(verifier, store, store, dispatcher, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth")),
		Wizard:    service.NewWizardService(store, store, verifier, dispatcher, log),
		Languages: service.NewLanguageService(store),
		Audit:     auditService,
		Pingers:   pingers,
		JWTSecret: cfg.JWTSecret,
		RateLimit: api.RateLimit{RPS: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst},
		Log:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.Store.Backend).
			Float64("latency_scale", cfg.Mock.LatencyScale).
			Msg("votingd listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("votingd stopped cleanly")
	return nil
}

// openStore selects the session store backend.
func openStore(ctx context.Context, cfg *config.Config) (ports.Store, handler.Pinger, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, nil, err
		}
		store := redisdb.NewStore(client, cfg.Store.SessionTTL)
		return store, store, func() { _ = client.Close() }, nil
	default:
		store, err := file.NewStore(cfg.Store.Dir, cfg.Store.SessionTTL)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, func() {}, nil
	}
}

// openAuditRepository uses MongoDB when MONGO_URI is set and a bounded
// in-memory log otherwise. The memory log drops its oldest event when full.
func openAuditRepository(
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
	pingers map[string]handler.Pinger,
) (ports.AuditRepository, func(), error) {
	if cfg.Mongo.URI == "" {
		log.Warn().Int("capacity", cfg.Audit.MemoryCap).Msg("MONGO_URI not set, audit trail kept in memory")
		return memory.NewEventRepository(cfg.Audit.MemoryCap), func() {}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, nil, err
	}
	repo := mongodb.NewEventRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	pingers["audit_db"] = mongodb.Pinger{Client: client}

	return repo, func() { _ = client.Disconnect(context.Background()) }, nil
}
