// Package main provides the WebSocket chat and listings API server for
// Mākeke.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kaimana/makeke/internal/chat"
	"github.com/kaimana/makeke/internal/config"
	"github.com/kaimana/makeke/internal/listings"
	"github.com/kaimana/makeke/internal/llm"
	"github.com/kaimana/makeke/internal/messaging"
	"github.com/kaimana/makeke/internal/models"
	"github.com/kaimana/makeke/internal/server"
	"github.com/kaimana/makeke/internal/tools"
	"github.com/kaimana/makeke/internal/verification"
)

func main() {
	memStore := flag.Bool("memory", false, "use a seeded in-memory listings store (demo mode)")
	flag.Parse()

	cfg := config.Load()

	logger, logClose := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer logClose()
	slog.SetDefault(logger)

	slog.Info("starting makeke-server", "port", cfg.ServerPort, "provider", cfg.LLMProvider)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, closeStore, err := openStore(ctx, cfg, *memStore, logger)
	cancel()
	if err != nil {
		slog.Error("failed to open listings store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			slog.Error("failed to close listings store", "error", err)
		}
	}()

	model, err := llm.NewModel(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to init model", "error", err)
		os.Exit(1)
	}
	slog.Info("model ready", "model", model.Name())

	// Each connection gets its own conversation and backend session over
	// the shared model client.
	factory := func() *chat.Orchestrator {
		verifier := verification.NewMockSMS(logger)
		executor := tools.NewExecutor(verifier, logger)
		session := llm.NewSession(model.LLM(), executor, logger)
		outbox := messaging.NewOutbox(logger)

		convo := chat.New(session, store, outbox, models.DemoUser, logger)
		if *memStore {
			convo.SetActiveSeller("u2")
		}
		return convo
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           server.New(store, factory, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// No read/write timeouts: chat connections are long-lived.
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		slog.Info("chat endpoint available", "url", fmt.Sprintf("ws://localhost:%s/ws/chat", cfg.ServerPort))
		slog.Info("listings endpoint available", "url", fmt.Sprintf("http://localhost:%s/api/listings", cfg.ServerPort))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// openStore connects the listings store, seeded in-memory when demo mode
// is requested.
func openStore(ctx context.Context, cfg config.Config, mem bool, logger *slog.Logger) (listings.Store, func(context.Context) error, error) {
	if mem {
		noop := func(context.Context) error { return nil }
		return listings.NewMemorySeeded(models.SeedListings()), noop, nil
	}

	s, err := listings.NewSurreal(ctx, listings.SurrealConfig{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}
