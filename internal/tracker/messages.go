package tracker

import (
	"github.com/codyseavey/poketrack/internal/models"
)

// Completion messages produced by the commands the slots return. They are
// unexported so only this package can feed a slot.

type searchResultMsg struct {
	ticket  Ticket
	query   string
	results []models.Card
	err     error
}

type priceHistoryMsg struct {
	ticket  Ticket
	key     PriceKey
	history *models.PriceHistory
	err     error
}

type watchlistLoadedMsg struct {
	ticket Ticket
	items  []models.WatchlistItem
	err    error
}

type watchlistOpMsg struct {
	op  watchlistOp
	err error
}
