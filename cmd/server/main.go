package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/api"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/catalog"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/config"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/database"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/services"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// Load the static item catalog
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to load item catalog: %v", err)
	}
	log.Printf("Loaded %d catalog items", cat.ItemCount())

	st := store.New(db, cfg.Watchlist.AllowDuplicates)

	marketClient := services.NewMarketClient(
		cfg.Feed.LocationList(),
		services.WithBaseURL(cfg.Feed.BaseURL),
		services.WithTimeout(cfg.Feed.RequestTimeout),
		services.WithRateLimit(cfg.Feed.RequestsPerSec),
	)

	projection := services.NewProjection(st, marketClient, cfg.Feed.FetchWorkers)
	refresher := services.NewRefresher(projection, cfg.Feed.RefreshInterval)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start refresher in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in refresher: %v - restarting in 30 seconds", r)
					}
				}()
				refresher.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return // Graceful shutdown
			case <-time.After(30 * time.Second):
				log.Println("Refresher restarting after panic recovery...")
			}
		}
	}()

	// Setup router
	router := api.SetupRouter(cat, st, projection, refresher, cfg.App.CORSOriginList())

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the refresher
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
