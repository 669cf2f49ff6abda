package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/vaultpass/pwgen-go/internal/config"
	"github.com/vaultpass/pwgen-go/internal/crypto"
	"github.com/vaultpass/pwgen-go/internal/handler"
	"github.com/vaultpass/pwgen-go/internal/middleware"
	"github.com/vaultpass/pwgen-go/internal/repository"
	"github.com/vaultpass/pwgen-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	generator, err := newGenerator(cfg)
	if err != nil {
		slog.Error("initializing generator", "error", err)
		os.Exit(1)
	}

	// Audit log is optional; without a DSN the stats endpoint reports it as disabled.
	var (
		audit   service.AuditRecorder
		counter service.TierCounter
	)
	if cfg.DatabaseDSN == "" {
		slog.Warn("DATABASE_DSN not set, generation audit disabled")
	} else {
		db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
		if err != nil {
			slog.Warn("database connection failed, generation audit disabled", "error", err)
		} else {
			defer db.Close()
			repo := repository.NewAuditRepository(db)
			audit, counter = repo, repo
		}
	}

	genService := service.NewGeneratorService(generator, cfg.DefaultLength, cfg.MaxLength, audit)
	statsService := service.NewStatsService(counter)

	r := newRouter(ctx, cfg, handler.NewGeneratorHandler(genService), handler.NewStatsHandler(statsService))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env,
			"require_auth", cfg.RequireAuth, "require_system_entropy", cfg.RequireSystemEntropy)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// newGenerator builds the password generator. Under REQUIRE_SYSTEM_ENTROPY no
// fallback generator is created at all.
func newGenerator(cfg config.Config) (*crypto.Generator, error) {
	if cfg.RequireSystemEntropy {
		sampler := crypto.NewSampler(crypto.NewSystemSource(), nil, crypto.WithPolicy(crypto.RequireSystem))
		return crypto.NewGenerator(sampler), nil
	}

	fallback, err := crypto.NewTimeSeededFallback()
	if err != nil {
		return nil, err
	}
	return crypto.NewGenerator(crypto.NewSampler(crypto.NewSystemSource(), fallback)), nil
}

func newRouter(ctx context.Context, cfg config.Config, gen *handler.GeneratorHandler, stats *handler.StatsHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
		if cfg.RequireAuth {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
		}
		r.Post("/api/v1/generate", gen.HandleGenerate)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Get("/api/v1/stats/entropy", stats.HandleEntropyStats)
	})

	return r
}
