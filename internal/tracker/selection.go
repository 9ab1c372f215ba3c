package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codyseavey/poketrack/internal/models"
)

var ErrInvalidWindow = errors.New("invalid price history window")

// PriceKey is the (card, window) pair a price history belongs to. Any change
// to the key supersedes the request for the previous key.
type PriceKey struct {
	CardName string
	Days     models.Window
}

// Selection owns the selected card, the lookback window and the price
// history for that pair. Select and SetWindow both feed the same ticket slot,
// so only the request for the final (card, days) combination is applied.
type Selection struct {
	ctx    context.Context
	remote Remote
	coord  *Coordinator
	log    *slog.Logger

	selected   *models.Card
	days       models.Window
	history    *models.PriceHistory
	historyKey PriceKey
	pending    bool
	err        error
}

func newSelection(ctx context.Context, remote Remote, coord *Coordinator, log *slog.Logger, days models.Window) *Selection {
	return &Selection{ctx: ctx, remote: remote, coord: coord, log: log, days: days}
}

// Select makes card the selection. The previous card's price history and
// error are cleared before the fetch for the new card is issued.
func (s *Selection) Select(card models.Card) tea.Cmd {
	s.selected = &card
	s.history = nil
	s.historyKey = PriceKey{}
	s.err = nil
	return s.fetch()
}

// SetWindow changes the lookback. With a card selected and a changed key it
// re-issues the price history request; otherwise it only stores days.
func (s *Selection) SetWindow(days models.Window) (tea.Cmd, error) {
	if !days.Valid() {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidWindow, days)
	}
	if days == s.days {
		return nil, nil
	}

	s.days = days
	if s.selected == nil {
		return nil, nil
	}
	return s.fetch(), nil
}

func (s *Selection) fetch() tea.Cmd {
	key := PriceKey{CardName: s.selected.Name, Days: s.days}
	ticket := s.coord.Begin(SlotPriceHistory)
	s.pending = true

	ctx, remote := s.ctx, s.remote
	return func() tea.Msg {
		history, err := remote.PriceHistory(ctx, key.CardName, key.Days)
		return priceHistoryMsg{ticket: ticket, key: key, history: history, err: err}
	}
}

func (s *Selection) apply(msg priceHistoryMsg) {
	if !s.coord.Settle(SlotPriceHistory, msg.ticket) {
		s.log.Debug("dropping stale price history response",
			"card", msg.key.CardName, "days", int(msg.key.Days), "ticket", msg.ticket)
		return
	}

	s.pending = false
	if msg.err != nil {
		s.err = msg.err
		s.log.Warn("price history failed", "card", msg.key.CardName, "days", int(msg.key.Days), "error", msg.err)
		return
	}

	s.history = msg.history
	s.historyKey = msg.key
	s.err = nil
}

// Selected returns a copy of the selected card, or nil
func (s *Selection) Selected() *models.Card {
	if s.selected == nil {
		return nil
	}
	card := *s.selected
	return &card
}

func (s *Selection) Days() models.Window {
	return s.days
}

// History returns the applied price history and the key it belongs to
func (s *Selection) History() (*models.PriceHistory, PriceKey) {
	return s.history, s.historyKey
}

func (s *Selection) Pending() bool {
	return s.pending
}

func (s *Selection) Err() error {
	return s.err
}
