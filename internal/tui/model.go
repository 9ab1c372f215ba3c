// Package tui is the terminal front end for the tracker.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/codyseavey/poketrack/internal/models"
	"github.com/codyseavey/poketrack/internal/tracker"
)

type focus int

const (
	focusInput focus = iota
	focusResults
	focusWatchlist
)

func (f focus) next() focus {
	return (f + 1) % 3
}

// Model is the bubbletea model hosting a Tracker. All remote work happens in
// the tracker's commands; the model only maps keys to tracker operations.
type Model struct {
	tracker *tracker.Tracker
	input   textinput.Model

	focus         focus
	resultCursor  int
	watchCursor   int
	width, height int

	// notice is a one-line status shown in the footer until the next key
	notice string
}

// New creates a model for t with the query input focused
func New(t *tracker.Tracker) Model {
	ti := textinput.New()
	ti.Placeholder = "search cards"
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Focus()

	return Model{
		tracker: t,
		input:   ti,
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tracker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		m.notice = ""
		return m.handleKey(msg)
	}

	cmd := m.tracker.Update(msg)
	m.clampCursors()

	// Cursor blink messages belong to the input
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	return m, tea.Batch(cmd, inputCmd)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.cycleFocus()
	}

	if m.focus == focusInput {
		switch msg.String() {
		case "enter":
			return m, m.tracker.Search().Submit(m.input.Value())
		case "esc":
			return m.cycleFocus()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.focus = focusInput
		return m, m.input.Focus()
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "1":
		return m.setWindow(models.Window7)
	case "2":
		return m.setWindow(models.Window14)
	case "3":
		return m.setWindow(models.Window30)
	case "r":
		return m, m.tracker.Watchlist().Load()
	case "enter":
		return m.selectHighlighted()
	case "a":
		if m.focus == focusResults {
			return m.addHighlighted()
		}
	case "d":
		if m.focus == focusWatchlist {
			return m.removeHighlighted()
		}
	}
	return m, nil
}

func (m Model) cycleFocus() (tea.Model, tea.Cmd) {
	m.focus = m.focus.next()
	if m.focus == focusInput {
		return m, m.input.Focus()
	}
	m.input.Blur()
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	switch m.focus {
	case focusResults:
		m.resultCursor += delta
	case focusWatchlist:
		m.watchCursor += delta
	}
	m.clampCursors()
}

func (m *Model) clampCursors() {
	m.resultCursor = clamp(m.resultCursor, len(m.tracker.Search().Results()))
	m.watchCursor = clamp(m.watchCursor, len(m.tracker.Watchlist().Items()))
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func (m Model) setWindow(days models.Window) (tea.Model, tea.Cmd) {
	cmd, err := m.tracker.Selection().SetWindow(days)
	if err != nil {
		m.notice = err.Error()
	}
	return m, cmd
}

func (m Model) highlightedResult() (models.Card, bool) {
	results := m.tracker.Search().Results()
	if m.resultCursor < 0 || m.resultCursor >= len(results) {
		return models.Card{}, false
	}
	return results[m.resultCursor], true
}

func (m Model) highlightedItem() (models.WatchlistItem, bool) {
	items := m.tracker.Watchlist().Items()
	if m.watchCursor < 0 || m.watchCursor >= len(items) {
		return models.WatchlistItem{}, false
	}
	return items[m.watchCursor], true
}

func (m Model) selectHighlighted() (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusResults:
		if card, ok := m.highlightedResult(); ok {
			return m, m.tracker.Selection().Select(card)
		}
	case focusWatchlist:
		if item, ok := m.highlightedItem(); ok {
			return m, m.tracker.Selection().Select(models.Card{Name: item.CardName})
		}
	}
	return m, nil
}

func (m Model) addHighlighted() (tea.Model, tea.Cmd) {
	card, ok := m.highlightedResult()
	if !ok {
		return m, nil
	}
	wl := m.tracker.Watchlist()
	switch {
	case wl.Busy(card.Name):
		m.notice = fmt.Sprintf("%s: update in progress", card.Name)
		return m, nil
	case wl.IsSaved(card.Name):
		m.notice = fmt.Sprintf("%s is already saved", card.Name)
		return m, nil
	}
	return m, wl.Add(card.Name)
}

func (m Model) removeHighlighted() (tea.Model, tea.Cmd) {
	item, ok := m.highlightedItem()
	if !ok {
		return m, nil
	}
	return m, m.tracker.Watchlist().Remove(item.CardName)
}
