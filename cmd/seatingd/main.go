package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"seating-backend/config"
	"seating-backend/internal/api"
	"seating-backend/internal/db"
	"seating-backend/internal/engine"
	"seating-backend/internal/notification"
	"seating-backend/internal/occupant"
	"seating-backend/internal/prefs"
	"seating-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "seating-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	resolver := occupant.NewGormResolver(gormDB)
	logger.Println("data store initialized")

	eng, err := engine.New(&cfg.Restaurant, appStore, appStore, resolver)
	if err != nil {
		logger.Fatalf("failed to initialize allocation engine: %v", err)
	}

	// Table-ready push notifications are optional; without VAPID keys the
	// waitlist simply is not notified.
	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		eng.SetNotifier(pool)
		logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys are not configured; table-ready notifications disabled")
	}

	matcher := prefs.NewMatcher(gormDB, appStore, appStore, eng)

	// Initialize router
	router := api.NewRouter(cfg, appStore, appStore, eng, matcher, webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
