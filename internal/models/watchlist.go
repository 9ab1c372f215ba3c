package models

import (
	"strings"
	"time"
)

// WatchlistItem is a saved card. CardName identity is case-insensitive.
type WatchlistItem struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	CardName  string    `json:"card_name" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the table name used by earlier releases of the backend
func (WatchlistItem) TableName() string {
	return "watchlist"
}

type AddToWatchlistRequest struct {
	CardName string `json:"card_name" binding:"required"`
}

// WatchlistKey folds a card name into its watchlist identity
func WatchlistKey(cardName string) string {
	return strings.ToLower(cardName)
}

// SameWatchlistCard reports whether two names refer to the same watchlist entry
func SameWatchlistCard(a, b string) bool {
	return WatchlistKey(a) == WatchlistKey(b)
}
