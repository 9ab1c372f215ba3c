package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codyseavey/poketrack/internal/models"
)

func newTestPriceService(t *testing.T, now time.Time) *PriceHistoryService {
	t.Helper()
	svc, err := NewPriceHistoryService(16)
	if err != nil {
		t.Fatalf("NewPriceHistoryService: %v", err)
	}
	svc.now = func() time.Time { return now }
	return svc
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGeneratePriceHistory(t *testing.T) {
	today := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// "pikachu" code points sum to 741, so the base price is 10 + 741%40 = 31
	tests := []struct {
		name      string
		days      models.Window
		first     string
		firstDate string
		latest    string
		pct       string
	}{
		{"seven days", models.Window7, "29.95", "2026-03-09", "32.53", "0"},
		{"fourteen days", models.Window14, "29.95", "2026-03-02", "33.09", "1.72"},
		{"thirty days", models.Window30, "29.95", "2026-02-14", "32.62", "1.75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := generatePriceHistory("pikachu", tt.days, today)

			if len(h.Points) != int(tt.days) {
				t.Fatalf("expected %d points, got %d", tt.days, len(h.Points))
			}
			if h.Currency != "USD" {
				t.Errorf("expected USD, got %q", h.Currency)
			}
			if !h.Points[0].Price.Equal(mustDecimal(tt.first)) {
				t.Errorf("first price: expected %s, got %s", tt.first, h.Points[0].Price)
			}
			if h.Points[0].Date != tt.firstDate {
				t.Errorf("first date: expected %s, got %s", tt.firstDate, h.Points[0].Date)
			}
			if last := h.Points[len(h.Points)-1]; last.Date != "2026-03-15" {
				t.Errorf("last date: expected 2026-03-15, got %s", last.Date)
			}
			if !h.LatestPrice.Equal(mustDecimal(tt.latest)) {
				t.Errorf("latest: expected %s, got %s", tt.latest, h.LatestPrice)
			}
			if !h.PercentChange7d.Equal(mustDecimal(tt.pct)) {
				t.Errorf("percent change: expected %s, got %s", tt.pct, h.PercentChange7d)
			}
		})
	}
}

func TestGeneratePriceHistoryBlankName(t *testing.T) {
	h := generatePriceHistory("", models.Window14, time.Now())

	if h.Points == nil || len(h.Points) != 0 {
		t.Errorf("expected empty non-nil points, got %v", h.Points)
	}
	if !h.LatestPrice.IsZero() || !h.PercentChange7d.IsZero() {
		t.Errorf("expected zero values, got latest=%s pct=%s", h.LatestPrice, h.PercentChange7d)
	}
}

func TestGetPriceHistoryCaseInsensitive(t *testing.T) {
	svc := newTestPriceService(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

	upper, err := svc.GetPriceHistory("Pikachu", models.Window14)
	if err != nil {
		t.Fatalf("GetPriceHistory: %v", err)
	}
	lower, err := svc.GetPriceHistory("pikachu", models.Window14)
	if err != nil {
		t.Fatalf("GetPriceHistory: %v", err)
	}

	if upper.CardName != "Pikachu" || lower.CardName != "pikachu" {
		t.Errorf("expected names echoed as requested, got %q and %q", upper.CardName, lower.CardName)
	}
	if !upper.LatestPrice.Equal(lower.LatestPrice) {
		t.Errorf("expected identical prices, got %s and %s", upper.LatestPrice, lower.LatestPrice)
	}
	if svc.CachedEntries() != 1 {
		t.Errorf("expected both lookups to share one cache entry, got %d", svc.CachedEntries())
	}
}

func TestGetPriceHistoryInvalidWindow(t *testing.T) {
	svc := newTestPriceService(t, time.Now())

	for _, days := range []models.Window{0, 1, 15, 365} {
		if _, err := svc.GetPriceHistory("Pikachu", days); !errors.Is(err, ErrInvalidWindow) {
			t.Errorf("days=%d: expected ErrInvalidWindow, got %v", days, err)
		}
	}
}

func TestGetPriceHistoryCacheRollsOverDaily(t *testing.T) {
	now := time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)
	svc := newTestPriceService(t, now)

	first, _ := svc.GetPriceHistory("Gengar", models.Window7)

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	second, _ := svc.GetPriceHistory("Gengar", models.Window7)

	if first.Points[6].Date != "2026-03-15" || second.Points[6].Date != "2026-03-16" {
		t.Errorf("expected histories to end on their own day, got %s and %s",
			first.Points[6].Date, second.Points[6].Date)
	}
	if svc.CachedEntries() != 2 {
		t.Errorf("expected one cache entry per day, got %d", svc.CachedEntries())
	}
}

func TestGetPriceHistoryDoesNotShareEcho(t *testing.T) {
	svc := newTestPriceService(t, time.Now())

	a, _ := svc.GetPriceHistory("GENGAR", models.Window7)
	a.CardName = "changed"

	b, _ := svc.GetPriceHistory("Gengar", models.Window7)
	if b.CardName != "Gengar" {
		t.Errorf("expected Gengar, got %q", b.CardName)
	}
}

func TestNewPriceHistoryServiceInvalidSize(t *testing.T) {
	if _, err := NewPriceHistoryService(0); err == nil {
		t.Error("expected error for zero cache size")
	}
}
