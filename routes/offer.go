package routes

import (
	"velora/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterOfferRoutes registers all endpoints for the offer lifecycle.
func RegisterOfferRoutes(r *gin.Engine, h *handlers.OfferHandler, providerAuth, userAuth gin.HandlerFunc) {
	offers := r.Group("/api/offers")
	{
		customer := offers.Group("")
		customer.Use(userAuth)
		customer.POST("", h.RequestOffer) // open generation 1
		customer.POST("/:offerID/cancel", h.CancelOffer)

		offers.GET("/:offerID", h.GetOffer)

		provider := offers.Group("")
		provider.Use(providerAuth)
		provider.POST("/:offerID/accept", h.AcceptOffer)
	}

	bookings := r.Group("/api/bookings")
	{
		bookings.Use(userAuth)
		bookings.GET("/:bookingID/offers", h.BookingHistory)
	}
}
