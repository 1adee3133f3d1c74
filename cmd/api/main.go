package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mini-shop/internal/cart"
	"mini-shop/internal/catalog"
	"mini-shop/internal/chat"
	"mini-shop/internal/config"
	"mini-shop/internal/database"
	"mini-shop/internal/handler"
	"mini-shop/internal/onboarding"
	"mini-shop/internal/repository"
	"mini-shop/internal/router"
	"mini-shop/internal/service"
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
	logger.Info().Msg("starting mini-shop API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize the shopper cart, hydrated from its last snapshot
	snapshotter := cart.NewFileSnapshotter(cfg.Cart.SnapshotPath, logger)
	shopperCart := cart.New(snapshotter, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, shopperCart, logger)

	// Initialize feed loader with S3 and local fallback
	importer := catalog.NewImporter(logger)
	fileLoader := catalog.NewFileLoader(importer, logger)
	var s3FeedLoader catalog.Loader

	if cfg.S3.Enabled {
		s3FeedLoader, err = catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, importer, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 feed loader, falling back to local file system only")
			s3FeedLoader = nil
		}
	} else {
		logger.Info().Msg("using local file system for catalogue feeds (S3 disabled)")
	}

	feedLoader := catalog.NewFallbackLoader(s3FeedLoader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)

	// Install the startup feed when one is configured
	if cfg.Catalog.FeedPath != "" {
		result, err := feedLoader.Load(ctx, cfg.Catalog.FeedPath)
		if err != nil {
			return fmt.Errorf("failed to load startup catalogue feed: %w", err)
		}
		if err := productService.ReplaceAll(ctx, result.Products); err != nil {
			return fmt.Errorf("failed to install startup catalogue feed: %w", err)
		}
		logger.Info().
			Str("feed", cfg.Catalog.FeedPath).
			Int("products", len(result.Products)).
			Int("skipped", result.Skipped).
			Msg("startup catalogue feed installed")
	}

	// Initialize the scripted chat assistant
	chatEngine := chat.NewEngine(chat.DefaultConfig(), chat.NewRealClock(), nil, logger)

	// Initialize the onboarding pipeline, installing into the catalogue
	onboardingService := onboarding.NewService(importer, productService.ReplaceAll, realClock{}, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(shopperCart, productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	chatHandler := handler.NewChatHandler(chatEngine, logger)
	onboardingHandler := handler.NewOnboardingHandler(onboardingService, productService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, orderHandler, chatHandler, onboardingHandler, cfg.Auth.APIKey, logger)

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
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// realClock drives the onboarding pipeline with real timers.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) func() {
	timer := time.AfterFunc(d, f)
	return func() { timer.Stop() }
}
