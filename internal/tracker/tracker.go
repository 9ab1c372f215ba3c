// Package tracker keeps the client's search, price history and watchlist
// state consistent with the PokeTrack API while requests complete out of
// order.
//
// Slots hand back tea.Cmd values that perform the remote call; the runtime
// runs them off the event loop and feeds the resulting messages to
// Tracker.Update. All state changes therefore happen on the event loop, and
// a per-slot ticket decides whether a completed response still applies.
package tracker

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codyseavey/poketrack/internal/models"
)

type options struct {
	logger *slog.Logger
	days   models.Window
}

type Option func(*options)

// WithLogger sets the logger used for stale drops and surfaced errors
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDefaultWindow sets the initial lookback; invalid values are ignored
func WithDefaultWindow(days models.Window) Option {
	return func(o *options) {
		if days.Valid() {
			o.days = days
		}
	}
}

// Tracker owns the three slots and routes completions to them
type Tracker struct {
	coord     *Coordinator
	log       *slog.Logger
	search    *Search
	selection *Selection
	watchlist *Watchlist
}

// New builds a tracker. ctx bounds every remote call the tracker issues.
func New(ctx context.Context, remote Remote, opts ...Option) *Tracker {
	o := options{
		logger: slog.New(slog.DiscardHandler),
		days:   models.DefaultWindow,
	}
	for _, opt := range opts {
		opt(&o)
	}

	coord := NewCoordinator()
	return &Tracker{
		coord:     coord,
		log:       o.logger,
		search:    newSearch(ctx, remote, coord, o.logger.With("slot", SlotSearch.String())),
		selection: newSelection(ctx, remote, coord, o.logger.With("slot", SlotPriceHistory.String()), o.days),
		watchlist: newWatchlist(ctx, remote, coord, o.logger.With("slot", "watchlist")),
	}
}

func (t *Tracker) Search() *Search {
	return t.search
}

func (t *Tracker) Selection() *Selection {
	return t.selection
}

func (t *Tracker) Watchlist() *Watchlist {
	return t.watchlist
}

// Init returns the startup watchlist load
func (t *Tracker) Init() tea.Cmd {
	return t.watchlist.Load()
}

// Update applies a completion message to the slot that issued it and
// returns any follow-up command. Messages from other sources are ignored.
func (t *Tracker) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case searchResultMsg:
		t.search.apply(msg)
	case priceHistoryMsg:
		t.selection.apply(msg)
	case watchlistLoadedMsg:
		t.watchlist.applyLoad(msg)
	case watchlistOpMsg:
		return t.watchlist.applyOp(msg)
	}
	return nil
}

// ResultView is a search result annotated with its watchlist membership
type ResultView struct {
	Card  models.Card
	Saved bool
	Busy  bool
}

// State is a point-in-time copy of everything a view needs to render
type State struct {
	Query        string
	ResultsQuery string
	Results      []ResultView
	Searching    bool
	SearchErr    string

	Selected      *models.Card
	Days          models.Window
	History       *models.PriceHistory
	HistoryKey    PriceKey
	LoadingPrices bool
	PriceErr      string

	Watchlist        []models.WatchlistItem
	WatchlistLoading bool
	WatchlistLoaded  bool
	WatchlistErr     string
}

// Snapshot copies the current state of every slot
func (t *Tracker) Snapshot() State {
	var membership Membership = t.watchlist

	results := t.search.Results()
	views := make([]ResultView, len(results))
	for i, card := range results {
		views[i] = ResultView{
			Card:  card,
			Saved: membership.IsSaved(card.Name),
			Busy:  membership.Busy(card.Name),
		}
	}

	history, key := t.selection.History()
	if history != nil {
		h := *history
		history = &h
	}

	return State{
		Query:        t.search.Query(),
		ResultsQuery: t.search.ResultsQuery(),
		Results:      views,
		Searching:    t.search.Pending(),
		SearchErr:    errString(t.search.Err()),

		Selected:      t.selection.Selected(),
		Days:          t.selection.Days(),
		History:       history,
		HistoryKey:    key,
		LoadingPrices: t.selection.Pending(),
		PriceErr:      errString(t.selection.Err()),

		Watchlist:        t.watchlist.Items(),
		WatchlistLoading: t.watchlist.Loading(),
		WatchlistLoaded:  t.watchlist.Loaded(),
		WatchlistErr:     errString(t.watchlist.Err()),
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
