package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/poketrack/internal/api/handlers"
	"github.com/codyseavey/poketrack/internal/config"
	"github.com/codyseavey/poketrack/internal/services"
)

func SetupRouter(cfg config.Server, catalog *services.CatalogService, prices *services.PriceHistoryService, watchlist *services.WatchlistService, warmer *services.CacheWarmer) *gin.Engine {
	router := gin.Default()
	// Card names may contain an escaped "/" and must still match /:name
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(RequestID(), Metrics())

	serveFrontend := cfg.FrontendDistPath != "" && dirExists(cfg.FrontendDistPath)

	// CORS configuration - allow configured origins or the dev defaults
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	// Initialize handlers
	cardHandler := handlers.NewCardHandler(catalog, prices)
	watchlistHandler := handlers.NewWatchlistHandler(watchlist)
	priceHandler := handlers.NewPriceHandler(warmer)

	// API routes
	api := router.Group("/api")
	{
		// Card routes
		cards := api.Group("/cards")
		{
			cards.GET("/search", cardHandler.SearchCards)
			cards.GET("/:name/price-history", cardHandler.GetPriceHistory)
		}

		// Watchlist routes
		watch := api.Group("/watchlist")
		{
			watch.GET("", watchlistHandler.GetWatchlist)
			watch.POST("", watchlistHandler.AddToWatchlist)
			watch.DELETE("/:name", watchlistHandler.RemoveFromWatchlist)
		}

		// Price routes
		priceRoutes := api.Group("/prices")
		{
			priceRoutes.GET("/status", priceHandler.GetPriceStatus)
			priceRoutes.POST("/warm", priceHandler.WarmPrices)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve frontend static files
	if serveFrontend {
		frontendPath := cfg.FrontendDistPath
		indexPath := filepath.Join(frontendPath, "index.html")

		router.Static("/assets", filepath.Join(frontendPath, "assets"))

		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback - serve index.html for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.File(indexPath)
		})
	}

	return router
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
