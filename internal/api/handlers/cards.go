package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/poketrack/internal/models"
	"github.com/codyseavey/poketrack/internal/services"
)

type CardHandler struct {
	catalog *services.CatalogService
	prices  *services.PriceHistoryService
}

func NewCardHandler(catalog *services.CatalogService, prices *services.PriceHistoryService) *CardHandler {
	return &CardHandler{
		catalog: catalog,
		prices:  prices,
	}
}

// SearchCards matches the catalog by name. A present but blank q returns no
// results; a missing q is a client error.
func (h *CardHandler) SearchCards(c *gin.Context) {
	query, ok := c.GetQuery("q")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	c.JSON(http.StatusOK, h.catalog.SearchCards(query))
}

// GetPriceHistory returns the daily history for a card over ?days=7|14|30
func (h *CardHandler) GetPriceHistory(c *gin.Context) {
	name := c.Param("name")

	days := models.DefaultWindow
	if raw, ok := c.GetQuery("days"); ok {
		w, err := models.ParseWindow(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		days = w
	}

	history, err := h.prices.GetPriceHistory(name, days)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}
