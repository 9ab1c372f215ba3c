package tracker

import (
	"context"

	"github.com/codyseavey/poketrack/internal/models"
)

// Remote is the request/response contract the tracker consumes. Every call
// may fail; the tracker treats all failures alike and never retries.
type Remote interface {
	SearchCards(ctx context.Context, query string) ([]models.Card, error)
	PriceHistory(ctx context.Context, cardName string, days models.Window) (*models.PriceHistory, error)
	ListWatchlist(ctx context.Context) ([]models.WatchlistItem, error)
	AddWatchlist(ctx context.Context, cardName string) error
	RemoveWatchlist(ctx context.Context, cardName string) error
}
