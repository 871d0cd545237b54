package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"waw-esim/internal/cart"
	"waw-esim/internal/catalog"
	"waw-esim/internal/config"
	"waw-esim/internal/database"
	"waw-esim/internal/flow"
	"waw-esim/internal/handler"
	"waw-esim/internal/order"
	"waw-esim/internal/router"
	"waw-esim/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting waw-esim API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize durable key-value storage
	var kv storage.Store
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		kv = storage.NewMemoryStore()
		logger.Info().Msg("using in-memory storage (state is lost on restart)")
	case config.StorageBackendSQLite:
		kv, err = storage.NewSQLiteStore(cfg.Storage.SQLitePath, logger)
		if err != nil {
			return fmt.Errorf("failed to open sqlite storage: %w", err)
		}
	case config.StorageBackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		kv, err = storage.NewPostgresStore(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
	}
	defer kv.Close()

	// Initialize the catalogue and order engine
	provider := catalog.NewStaticProvider(cfg.Simulation.LatencyFactor, logger)
	orderService := order.NewService(provider, kv, cfg.Simulation.LatencyFactor, nil, logger)

	controller := flow.NewController(provider, orderService, func(lookup cart.PlanLookup) *cart.Store {
		return cart.NewStore(kv, lookup, logger)
	}, logger)
	defer controller.Close()

	// Warm the controller: rehydrate the cart, fetch plans and payment methods
	controller.Init(ctx)
	if err := controller.LastError(); err != nil {
		logger.Warn().Err(err).Msg("initial catalogue load incomplete")
	}

	// Initialize HTTP handlers
	catalogHandler := handler.NewCatalogHandler(provider, logger)
	cartHandler := handler.NewCartHandler(controller, logger)
	orderHandler := handler.NewOrderHandler(controller, orderService, logger)

	// Initialize router
	mux := router.New(catalogHandler, cartHandler, orderHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				return fmt.Errorf("failed to stop server: %w", closeErr)
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		logger.Info().Msg("server stopped")
	}

	return nil
}
