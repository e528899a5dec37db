// Package main implements the microblog API server: account registration
// and login plus message CRUD over PostgreSQL (or an in-memory store for
// local development).
package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	app "github.com/waveline/microblog/internal/app"
	"github.com/waveline/microblog/internal/app/httpapi"
	"github.com/waveline/microblog/internal/app/metrics"
	"github.com/waveline/microblog/internal/app/storage/postgres"
	"github.com/waveline/microblog/internal/config"
	"github.com/waveline/microblog/internal/middleware"
	"github.com/waveline/microblog/internal/platform/migrations"
	"github.com/waveline/microblog/pkg/logger"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides config)")
	databaseURL := flag.String("database-url", "", "postgres DSN (overrides config; empty runs in-memory)")
	flag.Parse()

	log := logger.NewDefault("server")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("load configuration")
		os.Exit(1)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	if *databaseURL != "" {
		cfg.DatabaseURL = *databaseURL
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stores app.Stores
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Error("open database")
			os.Exit(1)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			log.WithError(err).Error("ping database")
			os.Exit(1)
		}
		if err := migrations.Apply(ctx, db); err != nil {
			log.WithError(err).Error("apply migrations")
			os.Exit(1)
		}

		store := postgres.New(db)
		stores = app.Stores{Accounts: store, Messages: store}
		log.Info("using postgres store")
	} else {
		log.Warn("DATABASE_URL not set; using in-memory store")
	}

	application, err := app.New(stores, log)
	if err != nil {
		log.WithError(err).Error("build application")
		os.Exit(1)
	}
	if err := application.Start(ctx); err != nil {
		log.WithError(err).Error("start application")
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/", httpapi.NewHandler(application, log))
	mux.Handle("/metrics", metrics.Handler())

	var handler http.Handler = mux
	handler = metrics.InstrumentHandler(handler)
	handler = middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, log).Handler(handler)
	handler = middleware.NewCORS(cfg.CORSOrigins).Handler(handler)
	handler = middleware.NewTracing(log).Handler(handler)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Error("http server")
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if err := application.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("application stop")
	}
	log.Info("stopped")
}
