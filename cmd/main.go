package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/portal-arena/auth"
	"github.com/Dosada05/portal-arena/config"
	"github.com/Dosada05/portal-arena/handlers"
	"github.com/Dosada05/portal-arena/realtime"
	api "github.com/Dosada05/portal-arena/routes"
	"github.com/Dosada05/portal-arena/services"
	"github.com/Dosada05/portal-arena/store"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const (
	capabilityTTL   = 24 * time.Hour
	shutdownTimeout = 15 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// State lives only in process memory; a restart discards every
	// tournament.
	tournamentStore := store.NewTournamentStore()
	tournamentService := services.NewTournamentService(tournamentStore, logger)
	capabilities := auth.NewManager([]byte(cfg.TokenSecret), capabilityTTL)
	hub := realtime.NewHub(tournamentService, logger)
	logger.Info("store, services and hub initialized")

	sessionHandler := handlers.NewSessionHandler(tournamentService, capabilities)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, capabilities, hub)
	webSocketHandler := handlers.NewWebSocketHandler(hub, capabilities)

	router := chi.NewRouter()
	api.SetupRoutes(router, sessionHandler, tournamentHandler, webSocketHandler, cfg.StaticDir)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			return server.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}
