package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codyseavey/poketrack/internal/models"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, catalogFile), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	return dir
}

func TestCatalogBuiltinFallback(t *testing.T) {
	svc, err := NewCatalogService(t.TempDir())
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}
	if svc.GetCardCount() != len(builtinCards) {
		t.Errorf("expected %d built-in cards, got %d", len(builtinCards), svc.GetCardCount())
	}
}

func TestCatalogSearchBuiltin(t *testing.T) {
	svc, err := NewCatalogService(t.TempDir())
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}

	tests := []struct {
		query    string
		expected []string
	}{
		{"pika", []string{"Pikachu"}},
		{"PIKACHU", []string{"Pikachu"}},
		{"  char  ", []string{"Charizard"}},
		{"a", []string{"Charizard", "Gengar", "Pikachu"}},
		{"missingno", nil},
		{"", nil},
		{"   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			result := svc.SearchCards(tt.query)
			if result.Query != tt.query {
				t.Errorf("expected query echoed as %q, got %q", tt.query, result.Query)
			}
			if result.Results == nil {
				t.Fatal("results should be an empty slice, not nil")
			}
			if len(result.Results) != len(tt.expected) {
				t.Fatalf("expected %d results, got %d (%+v)", len(tt.expected), len(result.Results), result.Results)
			}
			for i, name := range tt.expected {
				if result.Results[i].Name != name {
					t.Errorf("result %d: expected %s, got %s", i, name, result.Results[i].Name)
				}
			}
		})
	}
}

func TestCatalogSearchRanking(t *testing.T) {
	dir := writeCatalog(t, `[
		{"name": "Team Rocket's Mewtwo", "set": "Team Rocket", "rarity": "Rare"},
		{"name": "Mewtwo", "set": "Base Set", "rarity": "Rare"},
		{"name": "Mew", "set": "Promo", "rarity": "Promo"},
		{"name": "Dark Mewtwo", "set": "Team Rocket", "rarity": "Rare"},
		{"name": "Mewtwo ex", "set": "Ruby & Sapphire", "rarity": "Rare Holo"},
		{"name": "Gmewtwo", "set": "Fake", "rarity": "Common"}
	]`)
	svc, err := NewCatalogService(dir)
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}

	result := svc.SearchCards("mewtwo")
	expected := []string{
		"Mewtwo",               // exact
		"Mewtwo ex",            // prefix
		"Dark Mewtwo",          // word
		"Team Rocket's Mewtwo", // word
		"Gmewtwo",              // contains
	}
	if len(result.Results) != len(expected) {
		t.Fatalf("expected %d results, got %d", len(expected), len(result.Results))
	}
	for i, name := range expected {
		if result.Results[i].Name != name {
			t.Errorf("rank %d: expected %s, got %s", i, name, result.Results[i].Name)
		}
	}
}

func TestCatalogSearchLimit(t *testing.T) {
	content := "["
	for i := 0; i < 60; i++ {
		if i > 0 {
			content += ","
		}
		content += `{"name":"Unown ` + string(rune('A'+i%26)) + string(rune('A'+i/26)) + `","set":"Neo Discovery","rarity":"Uncommon"}`
	}
	content += "]"

	svc, err := NewCatalogService(writeCatalog(t, content))
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}
	if svc.GetCardCount() != 60 {
		t.Fatalf("expected 60 cards, got %d", svc.GetCardCount())
	}

	result := svc.SearchCards("unown")
	if len(result.Results) != maxSearchResults {
		t.Errorf("expected %d results, got %d", maxSearchResults, len(result.Results))
	}
}

func TestCatalogSkipsInvalidEntries(t *testing.T) {
	dir := writeCatalog(t, `[
		{"name": "Pikachu", "set": "Base Set", "rarity": "Common"},
		{"name": "", "set": "Base Set", "rarity": "Common"},
		{"name": "Pikachu", "set": "Base Set", "rarity": "Common"},
		{"name": "Pikachu", "set": "Jungle", "rarity": "Common"}
	]`)
	svc, err := NewCatalogService(dir)
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}
	if svc.GetCardCount() != 2 {
		t.Errorf("expected 2 cards after cleanup, got %d", svc.GetCardCount())
	}

	// Same name in two sets: both are returned
	result := svc.SearchCards("pikachu")
	if len(result.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(result.Results))
	}
	sets := map[string]bool{}
	for _, c := range result.Results {
		sets[c.Set] = true
	}
	if !sets["Base Set"] || !sets["Jungle"] {
		t.Errorf("expected both printings, got %+v", result.Results)
	}
}

func TestCatalogMalformedFile(t *testing.T) {
	if _, err := NewCatalogService(writeCatalog(t, `{not json`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestCatalogResultsAreCopies(t *testing.T) {
	svc, _ := NewCatalogService(t.TempDir())

	first := svc.SearchCards("pika")
	first.Results[0] = models.Card{Name: "changed"}

	second := svc.SearchCards("pika")
	if second.Results[0].Name != "Pikachu" {
		t.Errorf("catalog mutated through search result: %q", second.Results[0].Name)
	}
}
