package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/poketrack/internal/models"
	"github.com/codyseavey/poketrack/internal/services"
)

type WatchlistHandler struct {
	watchlist *services.WatchlistService
}

func NewWatchlistHandler(watchlist *services.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{
		watchlist: watchlist,
	}
}

func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	items, err := h.watchlist.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddToWatchlist saves a card; saving it again still answers 201
func (h *WatchlistHandler) AddToWatchlist(c *gin.Context) {
	var req models.AddToWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.watchlist.Add(req.CardName); err != nil {
		if errors.Is(err, services.ErrEmptyCardName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// RemoveFromWatchlist deletes a card; removing an unsaved card is not an error
func (h *WatchlistHandler) RemoveFromWatchlist(c *gin.Context) {
	if err := h.watchlist.Remove(c.Param("name")); err != nil {
		if errors.Is(err, services.ErrEmptyCardName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
