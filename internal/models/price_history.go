package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Window is the price history lookback in days
type Window int

const (
	Window7  Window = 7
	Window14 Window = 14
	Window30 Window = 30
)

// DefaultWindow is used until the user picks another lookback
const DefaultWindow = Window14

// AllWindows returns every supported lookback, shortest first
func AllWindows() []Window {
	return []Window{Window7, Window14, Window30}
}

// Valid reports whether w is one of the supported lookbacks
func (w Window) Valid() bool {
	switch w {
	case Window7, Window14, Window30:
		return true
	default:
		return false
	}
}

// ParseWindow parses a days value such as "14" and rejects unsupported lookbacks
func ParseWindow(s string) (Window, error) {
	days, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid days %q: %w", s, err)
	}
	w := Window(days)
	if !w.Valid() {
		return 0, fmt.Errorf("unsupported days %d (want 7, 14 or 30)", days)
	}
	return w, nil
}

// PricePoint is one day of a card's price history
type PricePoint struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Price decimal.Decimal `json:"price"`
}

// PriceHistory is the price series for one (card name, window) pair.
// Points are chronological as produced by the backend.
type PriceHistory struct {
	CardName        string          `json:"card_name"`
	Currency        string          `json:"currency"`
	Points          []PricePoint    `json:"points"`
	LatestPrice     decimal.Decimal `json:"latest_price"`
	PercentChange7d decimal.Decimal `json:"percent_change_7d"`
}
