package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/poketrack/internal/services"
)

type PriceHandler struct {
	warmer *services.CacheWarmer
}

func NewPriceHandler(warmer *services.CacheWarmer) *PriceHandler {
	return &PriceHandler{
		warmer: warmer,
	}
}

// GetPriceStatus returns the cache warmer status
func (h *PriceHandler) GetPriceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.warmer.GetStatus())
}

// WarmPrices runs the cache warmer immediately
func (h *PriceHandler) WarmPrices(c *gin.Context) {
	warmed, err := h.warmer.WarmOnce()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"warmed": warmed,
		"status": h.warmer.GetStatus(),
	})
}
