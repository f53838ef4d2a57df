package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/cache"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/db"
	httpx "github.com/fintrack/fintrack/internal/http"
	"github.com/fintrack/fintrack/internal/observability"
	"github.com/fintrack/fintrack/internal/repo/postgres"
	"github.com/fintrack/fintrack/internal/session"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	ctx := context.Background()

	// tracing (no-op when no collector endpoint is configured)
	shutdownTracer, err := observability.InitTracer(ctx, "fintrack", cfg.OTLPEndpoint)

	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	// database

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Error("schema migration failed", "err", err)
		os.Exit(1)
	}

	// sessions live in redis so restarts do not log everyone out

	redisStore := session.NewRedisStore(session.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer redisStore.Close()

	{
		pingCtx, cancel := config.WithTimeout(2 * time.Second)
		err := redisStore.Ping(pingCtx)
		cancel()

		if err != nil {
			log.Error("redis connection failed", "err", err)
			os.Exit(1)
		}
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, redisStore)

	// metrics + repositories + services

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	users := postgres.NewUsersRepo(pool, prom)
	entries := postgres.NewEntriesRepo(pool, prom)

	authSvc := auth.NewService(users, cfg.BcryptCost)

	pingDB := func() error {
		pingCtx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()

		return pool.Ping(pingCtx)
	}

	pingRedis := func() error {
		pingCtx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()

		return redisStore.Ping(pingCtx)
	}

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Registrar:     authSvc,
		Authenticator: authSvc,
		Sessions:      sessions,
		Entries:       entries,
		Prom:          prom,
		Registry:      registry,
		ChartCache:    cache.New(30 * time.Second),
		PingDB:        pingDB,
		PingRedis:     pingRedis,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		shutdownCtx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
