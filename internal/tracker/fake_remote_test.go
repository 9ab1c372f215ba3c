package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/codyseavey/poketrack/internal/models"
)

var errBackend = errors.New("backend unavailable")

// fakeRemote behaves like the reference backend: watchlist names are folded
// to lower case, adds are idempotent and timestamps are assigned on insert.
type fakeRemote struct {
	mu sync.Mutex

	catalog   []models.Card
	searchErr error

	priceErr error

	watchlist []models.WatchlistItem
	listErr   error
	addErr    error
	removeErr error
	clock     time.Time

	searchCalls []string
	priceCalls  []PriceKey
	listCalls   int
	addCalls    []string
	removeCalls []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		catalog: []models.Card{
			{Name: "Pikachu", Set: "Base Set", Rarity: "Common"},
			{Name: "Charizard", Set: "Base Set", Rarity: "Rare"},
			{Name: "Gengar", Set: "Fossil", Rarity: "Rare"},
		},
		clock: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
	}
}

func (f *fakeRemote) SearchCards(_ context.Context, query string) ([]models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []models.Card
	for _, c := range f.catalog {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRemote) PriceHistory(_ context.Context, cardName string, days models.Window) (*models.PriceHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceCalls = append(f.priceCalls, PriceKey{CardName: cardName, Days: days})
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	return historyFor(cardName, days), nil
}

func (f *fakeRemote) ListWatchlist(_ context.Context) ([]models.WatchlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.WatchlistItem, len(f.watchlist))
	copy(out, f.watchlist)
	return out, nil
}

func (f *fakeRemote) AddWatchlist(_ context.Context, cardName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls = append(f.addCalls, cardName)
	if f.addErr != nil {
		return f.addErr
	}
	name := strings.ToLower(cardName)
	for _, item := range f.watchlist {
		if item.CardName == name {
			return nil
		}
	}
	f.clock = f.clock.Add(time.Minute)
	f.watchlist = append([]models.WatchlistItem{{CardName: name, CreatedAt: f.clock}}, f.watchlist...)
	return nil
}

func (f *fakeRemote) RemoveWatchlist(_ context.Context, cardName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls = append(f.removeCalls, cardName)
	if f.removeErr != nil {
		return f.removeErr
	}
	name := strings.ToLower(cardName)
	kept := f.watchlist[:0]
	for _, item := range f.watchlist {
		if strings.ToLower(item.CardName) != name {
			kept = append(kept, item)
		}
	}
	f.watchlist = kept
	return nil
}

// historyFor returns a single-point history whose price encodes the window,
// so tests can tell which request produced the displayed data.
func historyFor(cardName string, days models.Window) *models.PriceHistory {
	price := decimal.NewFromInt(int64(days))
	return &models.PriceHistory{
		CardName:        cardName,
		Currency:        "USD",
		Points:          []models.PricePoint{{Date: "2026-01-02", Price: price}},
		LatestPrice:     price,
		PercentChange7d: decimal.Zero,
	}
}

// collect runs cmd and flattens batches into the messages they produce
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle runs cmd, feeds every message back into the tracker and keeps going
// until no follow-up command remains.
func settle(t *testing.T, tr *Tracker, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range collect(t, cmd) {
		settle(t, tr, tr.Update(msg))
	}
}

// deliver runs cmd and applies its single message without following up
func deliver(t *testing.T, tr *Tracker, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msgs := collect(t, cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	return tr.Update(msgs[0])
}

func newTestTracker(remote Remote, opts ...Option) *Tracker {
	return New(context.Background(), remote, opts...)
}

func cardNames(cards []models.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	return fmt.Sprint(names)
}

func itemNames(items []models.WatchlistItem) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.CardName
	}
	return fmt.Sprint(names)
}
