package services

import (
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/poketrack/internal/database"
)

func newTestWatchlistService(t *testing.T) *WatchlistService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "watchlist.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewWatchlistService(db)
}

func listNames(t *testing.T, svc *WatchlistService) []string {
	t.Helper()
	items, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.CardName
	}
	return names
}

func TestWatchlistAddFoldsCaseAndIgnoresDuplicates(t *testing.T) {
	svc := newTestWatchlistService(t)

	for _, name := range []string{"Charizard", "charizard", "  CHARIZARD "} {
		if err := svc.Add(name); err != nil {
			t.Fatalf("Add(%q): %v", name, err)
		}
	}

	names := listNames(t, svc)
	if len(names) != 1 || names[0] != "charizard" {
		t.Errorf("expected [charizard], got %v", names)
	}
}

func TestWatchlistAddEmpty(t *testing.T) {
	svc := newTestWatchlistService(t)

	for _, name := range []string{"", "   "} {
		if err := svc.Add(name); !errors.Is(err, ErrEmptyCardName) {
			t.Errorf("Add(%q): expected ErrEmptyCardName, got %v", name, err)
		}
	}
}

func TestWatchlistListNewestFirst(t *testing.T) {
	svc := newTestWatchlistService(t)

	for _, name := range []string{"Pikachu", "Gengar", "Charizard"} {
		if err := svc.Add(name); err != nil {
			t.Fatalf("Add(%q): %v", name, err)
		}
	}

	names := listNames(t, svc)
	expected := []string{"charizard", "gengar", "pikachu"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("position %d: expected %s, got %s", i, expected[i], names[i])
		}
	}
}

func TestWatchlistListEmptyIsNotNil(t *testing.T) {
	svc := newTestWatchlistService(t)

	items, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestWatchlistRemove(t *testing.T) {
	svc := newTestWatchlistService(t)
	svc.Add("Pikachu")
	svc.Add("Gengar")

	if err := svc.Remove("GENGAR"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	// Removing again is not an error
	if err := svc.Remove("gengar"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}

	names := listNames(t, svc)
	if len(names) != 1 || names[0] != "pikachu" {
		t.Errorf("expected [pikachu], got %v", names)
	}

	if err := svc.Remove(" "); !errors.Is(err, ErrEmptyCardName) {
		t.Errorf("expected ErrEmptyCardName, got %v", err)
	}
}
