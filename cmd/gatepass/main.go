package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skarthik/gatepass/internal/config"
	"github.com/skarthik/gatepass/internal/directory"
	"github.com/skarthik/gatepass/internal/ledger"
	"github.com/skarthik/gatepass/internal/logging"
	"github.com/skarthik/gatepass/internal/photostore/local"
	"github.com/skarthik/gatepass/internal/rowstore"
	"github.com/skarthik/gatepass/internal/rowstore/sqlite"
	"github.com/skarthik/gatepass/internal/web"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found; continuing with environment variables")
	}
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	zone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid TIMEZONE", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open row store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close row store", "error", err)
		}
	}()
	rows := rowstore.WithRetry(store, cfg.StoreRetries)

	photos, err := local.New(cfg.PhotoPath)
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		os.Exit(1)
	}

	lgr := ledger.New(rows, zone, logger)
	dir := directory.New(rows, logger)
	server := web.NewServer(lgr, dir, photos, zone, cfg.DashboardLimit, cfg.SessionTTL, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.ListenAddr, "timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		return
	}
	logger.Info("server stopped")
}
