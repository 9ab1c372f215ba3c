package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/codyseavey/poketrack/internal/models"
	"github.com/codyseavey/poketrack/internal/tracker"
)

// Styles.
var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	titleFocus    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("236"))
	savedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // orange for watchlist
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	gainStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	windowOnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

const listRows = 10

func (m Model) View() string {
	s := m.tracker.Snapshot()

	var b strings.Builder
	b.WriteString(headerStyle.Render(padOrTrunc(" poketrack  card prices and watchlist ", m.width)))
	b.WriteString("\n\n")

	b.WriteString(m.section("Search", focusInput))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	colWidth := m.width/2 - 1
	if colWidth < 20 {
		colWidth = 20
	}
	left := lipgloss.NewStyle().Width(colWidth).Render(m.renderResults(s))
	right := lipgloss.NewStyle().Width(colWidth).Render(m.renderWatchlist(s))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n\n")

	b.WriteString(renderPrices(s))
	b.WriteString("\n")

	footer := " tab focus  enter select  a add  d remove  1/2/3 window  r reload  q quit "
	if m.notice != "" {
		footer = " " + m.notice + " "
	}
	b.WriteString(footerStyle.Render(padOrTrunc(footer, m.width)))
	return b.String()
}

func (m Model) section(title string, f focus) string {
	if m.focus == f {
		return titleFocus.Render(" " + title + " ")
	}
	return titleStyle.Render(title)
}

func (m Model) renderResults(s tracker.State) string {
	var b strings.Builder
	title := "Results"
	if s.ResultsQuery != "" {
		title = fmt.Sprintf("Results for %q", s.ResultsQuery)
	}
	b.WriteString(m.section(title, focusResults))
	if s.Searching {
		b.WriteString(dimStyle.Render("  searching..."))
	}
	b.WriteString("\n")
	if s.SearchErr != "" {
		b.WriteString(errStyle.Render("! "+s.SearchErr) + "\n")
	}

	if len(s.Results) == 0 {
		if s.ResultsQuery != "" {
			b.WriteString(dimStyle.Render("no matches"))
		}
		return b.String()
	}

	start, end := window(m.resultCursor, len(s.Results))
	for i := start; i < end; i++ {
		r := s.Results[i]
		mark := "  "
		switch {
		case r.Busy:
			mark = "… "
		case r.Saved:
			mark = savedStyle.Render("★ ")
		}
		line := fmt.Sprintf("%s %s", r.Card.Name, dimStyle.Render(r.Card.Set))
		if m.focus == focusResults && i == m.resultCursor {
			line = cursorStyle.Render(r.Card.Name) + " " + dimStyle.Render(r.Card.Set)
		}
		b.WriteString(mark + line + "\n")
	}
	return b.String()
}

func (m Model) renderWatchlist(s tracker.State) string {
	var b strings.Builder
	b.WriteString(m.section(fmt.Sprintf("Watchlist (%d)", len(s.Watchlist)), focusWatchlist))
	if s.WatchlistLoading {
		b.WriteString(dimStyle.Render("  loading..."))
	}
	b.WriteString("\n")
	if s.WatchlistErr != "" {
		b.WriteString(errStyle.Render("! "+s.WatchlistErr) + "\n")
	}
	if !s.WatchlistLoaded && !s.WatchlistLoading {
		b.WriteString(dimStyle.Render("not loaded yet, r to retry") + "\n")
		return b.String()
	}

	start, end := window(m.watchCursor, len(s.Watchlist))
	for i := start; i < end; i++ {
		item := s.Watchlist[i]
		name := item.CardName
		if m.focus == focusWatchlist && i == m.watchCursor {
			name = cursorStyle.Render(name)
		}
		added := ""
		if !item.CreatedAt.IsZero() {
			added = dimStyle.Render(item.CreatedAt.Local().Format("Jan 2"))
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", name, added))
	}
	return b.String()
}

func renderPrices(s tracker.State) string {
	var b strings.Builder

	var tabs []string
	for _, w := range models.AllWindows() {
		label := fmt.Sprintf(" %dd ", w)
		if w == s.Days {
			label = windowOnStyle.Render(label)
		} else {
			label = dimStyle.Render(label)
		}
		tabs = append(tabs, label)
	}

	name := "no card selected"
	if s.Selected != nil {
		name = s.Selected.Name
	}
	b.WriteString(titleStyle.Render("Prices: "+name) + "  " + strings.Join(tabs, ""))
	if s.LoadingPrices {
		b.WriteString(dimStyle.Render("  loading..."))
	}
	b.WriteString("\n")
	if s.PriceErr != "" {
		b.WriteString(errStyle.Render("! "+s.PriceErr) + "\n")
	}

	h := s.History
	if h == nil {
		return b.String()
	}
	if len(h.Points) == 0 {
		b.WriteString(dimStyle.Render("no price data") + "\n")
		return b.String()
	}

	change := h.PercentChange7d.StringFixed(2) + "%"
	switch h.PercentChange7d.Sign() {
	case 1:
		change = gainStyle.Render("+" + change)
	case -1:
		change = lossStyle.Render(change)
	}
	first, last := h.Points[0], h.Points[len(h.Points)-1]
	b.WriteString(fmt.Sprintf("  latest %s %s   7d %s   %dd %s\n",
		h.LatestPrice.StringFixed(2), h.Currency, change, s.HistoryKey.Days, s.HistoryKey.CardName))
	b.WriteString(fmt.Sprintf("  %s %s %s\n", dimStyle.Render(first.Date), sparkline(h.Points), dimStyle.Render(last.Date)))
	return b.String()
}

// sparkline scales prices between the series minimum and maximum
func sparkline(points []models.PricePoint) string {
	if len(points) == 0 {
		return ""
	}
	lo, hi := points[0].Price, points[0].Price
	for _, p := range points[1:] {
		lo = decimal.Min(lo, p.Price)
		hi = decimal.Max(hi, p.Price)
	}
	span := hi.Sub(lo)
	top := decimal.NewFromInt(int64(len(sparkRunes) - 1))

	out := make([]rune, len(points))
	for i, p := range points {
		idx := 0
		if !span.IsZero() {
			idx = int(p.Price.Sub(lo).Div(span).Mul(top).Round(0).IntPart())
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}

// window returns the visible [start, end) rows keeping cursor on screen
func window(cursor, n int) (int, int) {
	start := 0
	if cursor >= listRows {
		start = cursor - listRows + 1
	}
	end := start + listRows
	if end > n {
		end = n
	}
	return start, end
}

func padOrTrunc(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
