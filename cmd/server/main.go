package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/cardrank/internal/api"
	"github.com/vytor/cardrank/internal/config"
	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/services"
	"github.com/vytor/cardrank/internal/store"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Card Ranking Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("store_driver=%s", cfg.StoreDriver)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("mongodb_database=%s", cfg.MongoDatabase)
	log.Debug("store_timeout=%s", cfg.StoreTimeout)
	log.Debug("leaderboard_limit=%d", cfg.LeaderboardLimit)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	st, err := store.Open(connectCtx, cfg)
	connectCancel()
	if err != nil {
		log.Error("store unavailable, refusing to start: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing store")
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Warn("failed to close store: %v", err)
		}
	}()

	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}

	cardService := services.NewCardService(st.Cards, st.Comparisons, services.CardServiceConfig{
		StoreTimeout:     cfg.StoreTimeout,
		LeaderboardLimit: cfg.LeaderboardLimit,
	})

	srv := &api.Server{
		CardService: cardService,
		Templates:   tmpl,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		log.Info("received signal %v, initiating graceful shutdown", sig)
	case err := <-serverErr:
		log.Error("HTTP server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Card Ranking Server Stopped")
	log.Info("===========================================")
}
