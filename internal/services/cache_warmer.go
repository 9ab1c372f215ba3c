package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/codyseavey/poketrack/internal/metrics"
	"github.com/codyseavey/poketrack/internal/models"
)

// CacheWarmer pre-computes price histories for every watchlisted card at
// every window so the first lookup after midnight is a cache hit.
type CacheWarmer struct {
	prices    *PriceHistoryService
	watchlist *WatchlistService
	interval  time.Duration
	mu        sync.RWMutex

	lastRunTime     time.Time
	cardsLastRun    int
	historiesWarmed int
	lastError       string
}

// WarmerStatus is served by /api/prices/status
type WarmerStatus struct {
	Enabled         bool      `json:"enabled"`
	Interval        string    `json:"interval"`
	LastRunTime     time.Time `json:"last_run_time"`
	NextRunTime     time.Time `json:"next_run_time,omitempty"`
	CardsLastRun    int       `json:"cards_last_run"`
	HistoriesWarmed int       `json:"histories_warmed"`
	CachedEntries   int       `json:"cached_entries"`
	LastError       string    `json:"last_error,omitempty"`
}

// NewCacheWarmer creates a warmer running every interval. A non-positive
// interval disables the background loop; WarmOnce still works.
func NewCacheWarmer(prices *PriceHistoryService, watchlist *WatchlistService, interval time.Duration) *CacheWarmer {
	return &CacheWarmer{
		prices:    prices,
		watchlist: watchlist,
		interval:  interval,
	}
}

// Start runs the warmer until ctx is cancelled
func (w *CacheWarmer) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Println("Cache warmer: disabled (warm_interval is 0)")
		return
	}
	log.Printf("Cache warmer started: will warm watchlist prices every %v", w.interval)

	// Run immediately on startup
	if warmed, err := w.WarmOnce(); err != nil {
		log.Printf("Cache warmer: initial run failed: %v", err)
	} else {
		log.Printf("Cache warmer: initial run warmed %d histories", warmed)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Cache warmer stopping...")
			return
		case <-ticker.C:
			if warmed, err := w.WarmOnce(); err != nil {
				log.Printf("Cache warmer: run failed: %v", err)
			} else if warmed > 0 {
				log.Printf("Cache warmer: warmed %d histories", warmed)
			}
		}
	}
}

// WarmOnce computes every (watchlisted card, window) history and returns how
// many were produced.
func (w *CacheWarmer) WarmOnce() (int, error) {
	start := time.Now()
	defer func() {
		metrics.PriceWarmDuration.Observe(time.Since(start).Seconds())
	}()

	items, err := w.watchlist.List()
	if err != nil {
		w.recordRun(0, 0, err)
		return 0, err
	}

	warmed := 0
	for _, item := range items {
		for _, days := range models.AllWindows() {
			if _, err := w.prices.GetPriceHistory(item.CardName, days); err != nil {
				log.Printf("Warning: failed to warm %s (%d days): %v", item.CardName, days, err)
				continue
			}
			warmed++
		}
	}
	metrics.PricesWarmedTotal.Add(float64(warmed))

	w.recordRun(len(items), warmed, nil)
	return warmed, nil
}

func (w *CacheWarmer) recordRun(cards, warmed int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastRunTime = time.Now()
	w.cardsLastRun = cards
	w.historiesWarmed += warmed
	w.lastError = ""
	if err != nil {
		w.lastError = err.Error()
	}
}

// GetStatus returns the current status
func (w *CacheWarmer) GetStatus() WarmerStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	status := WarmerStatus{
		Enabled:         w.interval > 0,
		Interval:        w.interval.String(),
		LastRunTime:     w.lastRunTime,
		CardsLastRun:    w.cardsLastRun,
		HistoriesWarmed: w.historiesWarmed,
		CachedEntries:   w.prices.CachedEntries(),
		LastError:       w.lastError,
	}
	if status.Enabled && !w.lastRunTime.IsZero() {
		status.NextRunTime = w.lastRunTime.Add(w.interval)
	}
	return status
}
