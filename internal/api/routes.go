package api

import (
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/api/handlers"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/catalog"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/metrics"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/services"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/store"
)

func SetupRouter(cat *catalog.Catalog, st *store.Store, projection *services.Projection, refresher *services.Refresher, corsOrigins []string) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = corsOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false
	router.Use(cors.New(config))
	router.Use(requestMetrics())

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(cat)
	watchlistHandler := handlers.NewWatchlistHandler(st, cat, projection, refresher)
	favoritesHandler := handlers.NewFavoritesHandler(st, cat, refresher)
	priceHandler := handlers.NewPriceHandler(refresher, projection)

	// API routes
	api := router.Group("/api")
	{
		items := api.Group("/items")
		{
			items.GET("/search", catalogHandler.SearchItems)
		}

		watchlist := api.Group("/watchlist")
		{
			watchlist.GET("", watchlistHandler.GetWatchlist)
			watchlist.POST("", watchlistHandler.AddToWatchlist)
			watchlist.DELETE("/:id", watchlistHandler.DeleteEntry)
			watchlist.POST("/reset", watchlistHandler.Reset)
			watchlist.POST("/refresh", watchlistHandler.Refresh)
			watchlist.POST("/:id/refresh", watchlistHandler.RefreshEntry)
		}

		favorites := api.Group("/favorites")
		{
			favorites.GET("", favoritesHandler.GetFavorites)
			favorites.POST("", favoritesHandler.AddFavorite)
			favorites.DELETE("/:id", favoritesHandler.DeleteFavorite)
			favorites.POST("/:id/promote", favoritesHandler.PromoteFavorite)
		}

		prices := api.Group("/prices")
		{
			prices.GET("/status", priceHandler.GetPriceStatus)
		}

		api.GET("/changes", priceHandler.WaitForChange)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// requestMetrics records per-request Prometheus counters.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(time.Since(start).Seconds())
	}
}
