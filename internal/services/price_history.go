package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"

	"github.com/codyseavey/poketrack/internal/metrics"
	"github.com/codyseavey/poketrack/internal/models"
)

const priceCurrency = "USD"

var ErrInvalidWindow = errors.New("days must be 7, 14 or 30")

var (
	waveStep  = decimal.RequireFromString("0.35")
	driftStep = decimal.RequireFromString("0.08")
	hundred   = decimal.NewFromInt(100)
)

// priceCacheKey identifies one generated history; the date keeps entries
// from outliving the day they were generated for.
type priceCacheKey struct {
	name string
	days models.Window
	date string
}

// PriceHistoryService produces deterministic daily price histories and
// caches them per card, window and day.
type PriceHistoryService struct {
	cache *lru.Cache[priceCacheKey, *models.PriceHistory]
	now   func() time.Time
}

// NewPriceHistoryService creates a service caching up to cacheSize histories
func NewPriceHistoryService(cacheSize int) (*PriceHistoryService, error) {
	cache, err := lru.New[priceCacheKey, *models.PriceHistory](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create price cache: %w", err)
	}
	return &PriceHistoryService{cache: cache, now: time.Now}, nil
}

// GetPriceHistory returns the history of cardName over the last days, ending
// today. The returned CardName echoes the name as requested.
func (s *PriceHistoryService) GetPriceHistory(cardName string, days models.Window) (*models.PriceHistory, error) {
	if !days.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, days)
	}

	today := s.now()
	key := priceCacheKey{
		name: strings.ToLower(strings.TrimSpace(cardName)),
		days: days,
		date: today.Format("2006-01-02"),
	}

	history, ok := s.cache.Get(key)
	if ok {
		metrics.PriceCacheHits.Inc()
	} else {
		metrics.PriceCacheMisses.Inc()
		history = generatePriceHistory(key.name, days, today)
		s.cache.Add(key, history)
	}

	// Cached entries are shared; only the echoed name differs per caller
	out := *history
	out.CardName = cardName
	return &out, nil
}

// CachedEntries reports how many histories are currently cached
func (s *PriceHistoryService) CachedEntries() int {
	return s.cache.Len()
}

// generatePriceHistory builds the series for an already folded name. The base
// price is 10 plus the name's code point sum modulo 40, with a weekly wave
// and a small upward drift on top.
func generatePriceHistory(name string, days models.Window, today time.Time) *models.PriceHistory {
	history := &models.PriceHistory{
		CardName:        name,
		Currency:        priceCurrency,
		Points:          []models.PricePoint{},
		LatestPrice:     decimal.Zero,
		PercentChange7d: decimal.Zero,
	}
	if name == "" {
		return history
	}

	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	base := decimal.NewFromInt(int64(10 + sum%40))

	n := int(days)
	points := make([]models.PricePoint, 0, n)
	for i := 0; i < n; i++ {
		date := today.AddDate(0, 0, -(n - 1 - i))
		wave := decimal.NewFromInt(int64(i%7 - 3)).Mul(waveStep)
		drift := decimal.NewFromInt(int64(i)).Mul(driftStep)
		points = append(points, models.PricePoint{
			Date:  date.Format("2006-01-02"),
			Price: base.Add(wave).Add(drift).Round(2),
		})
	}
	history.Points = points

	latest := points[len(points)-1].Price
	history.LatestPrice = latest
	if len(points) >= 8 {
		old := points[len(points)-8].Price
		if !old.IsZero() {
			history.PercentChange7d = latest.Sub(old).Div(old).Mul(hundred).Round(2)
		}
	}
	return history
}
