package handlers

import (
	"net/http"

	providerRepo "velora/database/repository/provider"
	"velora/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProviderHandler exposes the availability registry.
type ProviderHandler struct {
	Registry providerRepo.ProviderRegistry
	Logger   *zap.Logger
}

// NewProviderHandler creates a ProviderHandler.
func NewProviderHandler(registry providerRepo.ProviderRegistry, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{Registry: registry, Logger: logger}
}

// SetAvailabilityHandler flips the authenticated provider's availability flag.
func (h *ProviderHandler) SetAvailabilityHandler(c *gin.Context) {
	providerID := c.GetString("providerID")
	if providerID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "provider identity missing", "")
		return
	}

	var input struct {
		IsAvailable *bool `json:"isAvailable" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Registry.SetAvailability(c.Request.Context(), providerID, *input.IsAvailable); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to update availability", err.Error())
		return
	}

	h.Logger.Info("provider availability updated",
		zap.String("providerId", providerID),
		zap.Bool("isAvailable", *input.IsAvailable))
	c.JSON(http.StatusOK, gin.H{"providerId": providerID, "isAvailable": *input.IsAvailable})
}

// ListAvailableHandler returns the providers currently accepting offers.
func (h *ProviderHandler) ListAvailableHandler(c *gin.Context) {
	providers, err := h.Registry.ListAvailable(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list available providers", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// HealthHandler returns the latest health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
