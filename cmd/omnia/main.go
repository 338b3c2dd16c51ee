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

	"github.com/joho/godotenv"

	"github.com/omnia-aid/omnia/internal/config"
	"github.com/omnia-aid/omnia/internal/database"
	"github.com/omnia-aid/omnia/internal/logging"
	"github.com/omnia-aid/omnia/internal/server"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.UsesDevSecret() {
		logger.Warn("OMNIA_JWT_SECRET not set, signing sessions with the development secret")
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv, err := server.New(db, cfg, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	if cfg.SeedAidTypes {
		n, err := srv.AidTypeStore().SeedDefaults()
		if err != nil {
			logger.Error("failed to seed aid types", "error", err)
			os.Exit(1)
		}
		if n > 0 {
			logger.Info("seeded aid types", "count", n)
		}
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	go func() {
		logger.Info("omnia listening", "addr", httpServer.Addr, "data_source", cfg.DataSource, "api_url", cfg.APIURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	srv.Hub().Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
