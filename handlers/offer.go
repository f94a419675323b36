package handlers

import (
	"errors"
	"net/http"
	"time"

	offerRepo "velora/database/repository/offer"
	"velora/models"
	"velora/services/offer"
	"velora/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OfferHandler exposes the offer lifecycle over HTTP.
type OfferHandler struct {
	Service offer.LifecycleService
	Logger  *zap.Logger
}

// NewOfferHandler creates an OfferHandler.
func NewOfferHandler(service offer.LifecycleService, logger *zap.Logger) *OfferHandler {
	return &OfferHandler{Service: service, Logger: logger}
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// writeOfferError maps lifecycle errors onto HTTP statuses. StaleStateError
// never reaches this layer; the service resolves it internally.
func writeOfferError(c *gin.Context, err error) {
	var conflict *offerRepo.ConflictError
	if errors.As(err, &conflict) {
		utils.JSONError(c, http.StatusConflict, "booking already has an offer", conflict.Error())
		return
	}
	var notFound *offerRepo.NotFoundError
	if errors.As(err, &notFound) {
		utils.JSONError(c, http.StatusNotFound, "offer not found", notFound.Error())
		return
	}
	var offerErr *offer.OfferError
	if errors.As(err, &offerErr) {
		if offerErr.Code == offer.CodeOfferAccessDenied {
			utils.JSONError(c, http.StatusForbidden, "not your offer", offerErr.Message)
			return
		}
		utils.JSONError(c, http.StatusConflict, "offer no longer available", offerErr.Message)
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
}

// RequestOffer creates generation 1 of an offer for the selected provider.
func (h *OfferHandler) RequestOffer(c *gin.Context) {
	var input struct {
		BookingID      string       `json:"bookingId"`
		ProviderID     string       `json:"providerId" binding:"required"`
		Terms          models.Terms `json:"terms" binding:"required"`
		ResponseWindow int          `json:"responseWindowSeconds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	req := offer.OfferRequest{
		BookingID:  input.BookingID,
		CustomerID: c.GetString("userID"),
		ProviderID: input.ProviderID,
		Terms:      input.Terms,
	}
	if input.ResponseWindow > 0 {
		req.ResponseWindow = secondsToDuration(input.ResponseWindow)
	}

	view, err := h.Service.Request(c.Request.Context(), req)
	if err != nil {
		writeOfferError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetOffer returns an offer with its server-computed remaining time.
func (h *OfferHandler) GetOffer(c *gin.Context) {
	view, err := h.Service.GetOffer(c.Request.Context(), c.Param("offerID"))
	if err != nil {
		writeOfferError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AcceptOffer records the authenticated provider's acceptance.
func (h *OfferHandler) AcceptOffer(c *gin.Context) {
	providerID := c.GetString("providerID")
	if providerID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "provider identity missing", "")
		return
	}

	view, err := h.Service.Accept(c.Request.Context(), c.Param("offerID"), providerID)
	if err != nil {
		writeOfferError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CancelOffer withdraws a waiting offer. Only the customer who opened the
// booking may cancel it.
func (h *OfferHandler) CancelOffer(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "customer identity missing", "")
		return
	}
	if err := h.Service.Cancel(c.Request.Context(), c.Param("offerID"), userID); err != nil {
		writeOfferError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.OfferStateCancelled})
}

// BookingHistory lists every offer generation for a booking.
func (h *OfferHandler) BookingHistory(c *gin.Context) {
	offers, err := h.Service.BookingHistory(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		writeOfferError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": c.Param("bookingID"), "offers": offers})
}
