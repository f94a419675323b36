package routes

import (
	"net/http"
	"time"

	"velora/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every route group onto the router.
func RegisterRoutes(r *gin.Engine, offerHandler *handlers.OfferHandler, providerHandler *handlers.ProviderHandler, providerAuth, userAuth gin.HandlerFunc) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterOfferRoutes(r, offerHandler, providerAuth, userAuth)
	RegisterProviderRoutes(r, providerHandler, providerAuth)

	r.GET("/health", handlers.HealthHandler)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
}

// RegisterProviderRoutes registers availability registry endpoints.
func RegisterProviderRoutes(r *gin.Engine, h *handlers.ProviderHandler, providerAuth gin.HandlerFunc) {
	api := r.Group("/api/providers")
	{
		api.GET("/available", h.ListAvailableHandler)

		protected := api.Group("")
		protected.Use(providerAuth)
		protected.PUT("/availability", h.SetAvailabilityHandler)
	}
}
