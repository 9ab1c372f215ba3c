package tracker

import (
	"github.com/codyseavey/poketrack/internal/metrics"
)

// Slot names one stream of requests in which a newer request supersedes
// every older one.
type Slot int

const (
	SlotSearch Slot = iota
	SlotPriceHistory
	SlotWatchlistLoad
)

func (s Slot) String() string {
	switch s {
	case SlotSearch:
		return "search"
	case SlotPriceHistory:
		return "price_history"
	case SlotWatchlistLoad:
		return "watchlist_load"
	default:
		return "unknown"
	}
}

// Ticket identifies one issued request within a slot. Zero is never issued.
type Ticket uint64

// Coordinator hands out per-slot tickets and decides whether a settled
// response is still the latest one issued for its slot.
//
// There is no locking: tickets are compared, never waited on, and every call
// is made from the event loop that owns the slots. In-flight requests are not
// cancelled; their responses are simply ignored once superseded.
type Coordinator struct {
	current map[Slot]Ticket
}

func NewCoordinator() *Coordinator {
	return &Coordinator{current: make(map[Slot]Ticket)}
}

// Begin issues the next ticket for slot. Every earlier ticket of that slot
// stops being current immediately.
func (c *Coordinator) Begin(slot Slot) Ticket {
	c.current[slot]++
	metrics.TrackerTicketsIssued.WithLabelValues(slot.String()).Inc()
	return c.current[slot]
}

// IsCurrent reports whether ticket is the latest issued for slot
func (c *Coordinator) IsCurrent(slot Slot, ticket Ticket) bool {
	return ticket != 0 && c.current[slot] == ticket
}

// Current returns the latest ticket issued for slot, or zero if none
func (c *Coordinator) Current(slot Slot) Ticket {
	return c.current[slot]
}

// Settle is IsCurrent for a response that has just completed. It records
// whether the response is applied or dropped as stale.
func (c *Coordinator) Settle(slot Slot, ticket Ticket) bool {
	current := c.IsCurrent(slot, ticket)
	outcome := "stale"
	if current {
		outcome = "applied"
	}
	metrics.TrackerResponsesTotal.WithLabelValues(slot.String(), outcome).Inc()
	return current
}
