package tracker

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codyseavey/poketrack/internal/models"
)

// Search owns the query text and the result list. Only the response to the
// latest submitted query is ever applied.
type Search struct {
	ctx    context.Context
	remote Remote
	coord  *Coordinator
	log    *slog.Logger

	query        string // last submitted query
	resultsQuery string // query the current results belong to
	results      []models.Card
	pending      bool
	err          error
}

func newSearch(ctx context.Context, remote Remote, coord *Coordinator, log *slog.Logger) *Search {
	return &Search{ctx: ctx, remote: remote, coord: coord, log: log}
}

// Submit starts a search for text. A blank query issues nothing and leaves
// the result list as it is.
func (s *Search) Submit(text string) tea.Cmd {
	query := strings.TrimSpace(text)
	if query == "" {
		return nil
	}

	s.query = query
	s.pending = true
	ticket := s.coord.Begin(SlotSearch)

	ctx, remote := s.ctx, s.remote
	return func() tea.Msg {
		results, err := remote.SearchCards(ctx, query)
		return searchResultMsg{ticket: ticket, query: query, results: results, err: err}
	}
}

func (s *Search) apply(msg searchResultMsg) {
	if !s.coord.Settle(SlotSearch, msg.ticket) {
		s.log.Debug("dropping stale search response", "query", msg.query, "ticket", msg.ticket)
		return
	}

	s.pending = false
	if msg.err != nil {
		// Keep the last good results on screen next to the error
		s.err = msg.err
		s.log.Warn("search failed", "query", msg.query, "error", msg.err)
		return
	}

	s.results = msg.results
	s.resultsQuery = msg.query
	s.err = nil
}

// Query returns the last submitted query
func (s *Search) Query() string {
	return s.query
}

// ResultsQuery returns the query whose results are currently held
func (s *Search) ResultsQuery() string {
	return s.resultsQuery
}

// Results returns a copy of the current result list
func (s *Search) Results() []models.Card {
	out := make([]models.Card, len(s.results))
	copy(out, s.results)
	return out
}

func (s *Search) Pending() bool {
	return s.pending
}

func (s *Search) Err() error {
	return s.err
}
