package tracker

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codyseavey/poketrack/internal/models"
)

type watchlistOpKind int

const (
	opAdd watchlistOpKind = iota
	opRemove
)

func (k watchlistOpKind) String() string {
	if k == opAdd {
		return "add"
	}
	return "remove"
}

type watchlistOp struct {
	kind watchlistOpKind
	name string
}

// Membership is the read-only view of the watchlist other components get
type Membership interface {
	IsSaved(cardName string) bool
	Busy(cardName string) bool
}

// Watchlist is the single writer of the saved-card collection.
//
// Adds are confirmed by reloading the whole collection so that the server's
// name folding and timestamps win. Removes are applied locally once the
// server confirms them, without a reload.
//
// Mutations for the same case-folded name run one at a time in submission
// order; mutations for different names are independent. Loads share one
// ticket slot, so an older load never overwrites a newer one.
type Watchlist struct {
	ctx    context.Context
	remote Remote
	coord  *Coordinator
	log    *slog.Logger

	items   []models.WatchlistItem
	loading bool
	loaded  bool
	err     error
	// watchlist key of the mutation that set err; empty for a load failure
	errKey string

	// queued and in-flight mutations per watchlist key; the head is in flight
	queues map[string][]watchlistOp
	// load ticket that was in flight when a removal was confirmed
	tombstones map[string]Ticket
}

func newWatchlist(ctx context.Context, remote Remote, coord *Coordinator, log *slog.Logger) *Watchlist {
	return &Watchlist{
		ctx:        ctx,
		remote:     remote,
		coord:      coord,
		log:        log,
		queues:     make(map[string][]watchlistOp),
		tombstones: make(map[string]Ticket),
	}
}

// Load fetches the full collection and replaces local state with it
func (w *Watchlist) Load() tea.Cmd {
	ticket := w.coord.Begin(SlotWatchlistLoad)
	w.loading = true

	ctx, remote := w.ctx, w.remote
	return func() tea.Msg {
		items, err := remote.ListWatchlist(ctx)
		return watchlistLoadedMsg{ticket: ticket, items: items, err: err}
	}
}

func (w *Watchlist) applyLoad(msg watchlistLoadedMsg) {
	if !w.coord.Settle(SlotWatchlistLoad, msg.ticket) {
		w.log.Debug("dropping stale watchlist load", "ticket", msg.ticket)
		return
	}

	w.loading = false
	tombstones := w.tombstones
	// No older load can be applied after this one
	w.tombstones = make(map[string]Ticket)

	if msg.err != nil {
		w.err = fmt.Errorf("load watchlist: %w", msg.err)
		w.errKey = ""
		w.log.Warn("watchlist load failed", "error", msg.err)
		return
	}

	seen := make(map[string]bool, len(msg.items))
	items := make([]models.WatchlistItem, 0, len(msg.items))
	for _, item := range msg.items {
		key := models.WatchlistKey(item.CardName)
		if seen[key] {
			continue
		}
		if removedAt, ok := tombstones[key]; ok && removedAt >= msg.ticket {
			// Served before the confirmed removal reached the server
			continue
		}
		seen[key] = true
		items = append(items, item)
	}

	w.items = items
	w.loaded = true
	w.err = nil
	w.errKey = ""
}

// Add saves cardName on the server, then reconciles by reloading
func (w *Watchlist) Add(cardName string) tea.Cmd {
	return w.enqueue(watchlistOp{kind: opAdd, name: cardName})
}

// Remove deletes cardName on the server and, once confirmed, drops it locally
func (w *Watchlist) Remove(cardName string) tea.Cmd {
	return w.enqueue(watchlistOp{kind: opRemove, name: cardName})
}

func (w *Watchlist) enqueue(op watchlistOp) tea.Cmd {
	key := models.WatchlistKey(op.name)
	w.queues[key] = append(w.queues[key], op)
	if len(w.queues[key]) > 1 {
		// Started when the operation ahead of it settles
		return nil
	}
	return w.run(op)
}

func (w *Watchlist) run(op watchlistOp) tea.Cmd {
	ctx, remote := w.ctx, w.remote
	return func() tea.Msg {
		var err error
		switch op.kind {
		case opAdd:
			err = remote.AddWatchlist(ctx, op.name)
		case opRemove:
			err = remote.RemoveWatchlist(ctx, op.name)
		}
		return watchlistOpMsg{op: op, err: err}
	}
}

func (w *Watchlist) applyOp(msg watchlistOpMsg) tea.Cmd {
	op := msg.op
	key := models.WatchlistKey(op.name)
	var cmds []tea.Cmd

	switch {
	case msg.err != nil:
		w.err = fmt.Errorf("%s %q: %w", op.kind, op.name, msg.err)
		w.errKey = key
		w.log.Warn("watchlist mutation failed", "op", op.kind.String(), "card", op.name, "error", msg.err)
	case op.kind == opAdd:
		delete(w.tombstones, key)
		w.clearErrFor(key)
		cmds = append(cmds, w.Load())
	case op.kind == opRemove:
		kept := make([]models.WatchlistItem, 0, len(w.items))
		for _, item := range w.items {
			if models.WatchlistKey(item.CardName) != key {
				kept = append(kept, item)
			}
		}
		w.items = kept
		if w.loading {
			w.tombstones[key] = w.coord.Current(SlotWatchlistLoad)
		}
		w.clearErrFor(key)
	}

	queue := w.queues[key]
	if len(queue) > 0 {
		queue = queue[1:]
	}
	if len(queue) == 0 {
		delete(w.queues, key)
	} else {
		w.queues[key] = queue
		cmds = append(cmds, w.run(queue[0]))
	}

	return tea.Batch(cmds...)
}

// clearErrFor drops an earlier mutation error for the same card. Load
// failures and errors for other cards stay until a load succeeds.
func (w *Watchlist) clearErrFor(key string) {
	if w.err != nil && w.errKey != "" && w.errKey == key {
		w.err = nil
		w.errKey = ""
	}
}

// IsSaved reports whether cardName is on the watchlist, ignoring case
func (w *Watchlist) IsSaved(cardName string) bool {
	key := models.WatchlistKey(cardName)
	for _, item := range w.items {
		if models.WatchlistKey(item.CardName) == key {
			return true
		}
	}
	return false
}

// Busy reports whether a mutation for cardName is queued or in flight
func (w *Watchlist) Busy(cardName string) bool {
	return len(w.queues[models.WatchlistKey(cardName)]) > 0
}

// Items returns a copy of the collection
func (w *Watchlist) Items() []models.WatchlistItem {
	out := make([]models.WatchlistItem, len(w.items))
	copy(out, w.items)
	return out
}

// Loading reports whether the latest load is still outstanding
func (w *Watchlist) Loading() bool {
	return w.loading
}

// Loaded reports whether any load has been applied
func (w *Watchlist) Loaded() bool {
	return w.loaded
}

func (w *Watchlist) Err() error {
	return w.err
}
