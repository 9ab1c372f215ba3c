package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codyseavey/poketrack/internal/api"
	"github.com/codyseavey/poketrack/internal/config"
	"github.com/codyseavey/poketrack/internal/database"
	"github.com/codyseavey/poketrack/internal/services"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Prices go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize database
	if err := database.Initialize(cfg.Server.DBDriver, cfg.Server.DBDSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize services
	catalogService, err := services.NewCatalogService(cfg.Server.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize catalog: %v", err)
	}
	log.Printf("Loaded %d cards", catalogService.GetCardCount())

	priceService, err := services.NewPriceHistoryService(cfg.Server.PriceCacheSize)
	if err != nil {
		log.Fatalf("Failed to initialize price history service: %v", err)
	}

	watchlistService := services.NewWatchlistService(database.GetDB())
	cacheWarmer := services.NewCacheWarmer(priceService, watchlistService, cfg.Server.WarmInterval)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start cache warmer in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in cache warmer: %v - restarting in 30 seconds", r)
					}
				}()
				cacheWarmer.Start(ctx)
			}()

			// Start returns at once when warming is disabled
			if cfg.Server.WarmInterval <= 0 {
				return
			}

			select {
			case <-ctx.Done():
				return // Graceful shutdown
			case <-time.After(30 * time.Second):
				log.Println("Cache warmer restarting after panic recovery...")
			}
		}
	}()

	router := api.SetupRouter(cfg.Server, catalogService, priceService, watchlistService, cacheWarmer)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the cache warmer
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
