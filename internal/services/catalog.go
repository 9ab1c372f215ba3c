package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/codyseavey/poketrack/internal/metrics"
	"github.com/codyseavey/poketrack/internal/models"
)

const (
	catalogFile       = "cards.json"
	maxSearchResults  = 50
	scoreExactName    = 1000
	scoreNamePrefix   = 700
	scoreWordInName   = 600
	scoreNameContains = 500
)

// builtinCards is served when no catalog file is present
var builtinCards = []models.Card{
	{Name: "Pikachu", Set: "Base Set", Rarity: "Common"},
	{Name: "Charizard", Set: "Base Set", Rarity: "Rare"},
	{Name: "Gengar", Set: "Fossil", Rarity: "Rare"},
}

// CatalogService answers card searches from an in-memory catalog
type CatalogService struct {
	cards []models.Card
	mu    sync.RWMutex
}

// NewCatalogService loads <dataDir>/cards.json, falling back to the built-in
// cards when the file does not exist.
func NewCatalogService(dataDir string) (*CatalogService, error) {
	s := &CatalogService{}
	if err := s.loadData(dataDir); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CatalogService) loadData(dataDir string) error {
	path := filepath.Join(dataDir, catalogFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("Catalog: %s not found, using %d built-in cards", path, len(builtinCards))
		s.setCards(builtinCards)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	var cards []models.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	// Drop unnamed entries and exact duplicates
	seen := make(map[models.Card]bool, len(cards))
	valid := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" || seen[c] {
			continue
		}
		seen[c] = true
		valid = append(valid, c)
	}
	if skipped := len(cards) - len(valid); skipped > 0 {
		log.Printf("Warning: skipped %d unnamed or duplicate catalog entries", skipped)
	}

	s.setCards(valid)
	log.Printf("Catalog loaded: %d cards from %s", len(valid), path)
	return nil
}

func (s *CatalogService) setCards(cards []models.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = append([]models.Card(nil), cards...)
	metrics.CatalogSize.Set(float64(len(s.cards)))
}

// SearchCards returns the cards whose name contains query, ignoring case.
// A blank query matches nothing.
func (s *CatalogService) SearchCards(query string) *models.CardSearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	metrics.CatalogSearchesTotal.Inc()

	result := &models.CardSearchResult{Query: query, Results: []models.Card{}}

	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return result
	}

	type scoredMatch struct {
		idx   int
		score int // Higher = better match
	}
	scored := make([]scoredMatch, 0)

	for idx, card := range s.cards {
		nameLower := strings.ToLower(card.Name)

		score := 0
		if nameLower == queryLower {
			score = scoreExactName
		} else if strings.HasPrefix(nameLower, queryLower) {
			score = scoreNamePrefix
		} else if strings.Contains(nameLower, " "+queryLower) {
			// Query starts a later word, e.g. "mime" in "Mr. Mime"
			score = scoreWordInName
		} else if strings.Contains(nameLower, queryLower) {
			score = scoreNameContains
		}

		if score > 0 {
			scored = append(scored, scoredMatch{idx: idx, score: score})
		}
	}

	// Sort by score (descending), then by name for consistency
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return s.cards[scored[i].idx].Name < s.cards[scored[j].idx].Name
	})

	maxResults := maxSearchResults
	if len(scored) < maxResults {
		maxResults = len(scored)
	}

	for i := 0; i < maxResults; i++ {
		result.Results = append(result.Results, s.cards[scored[i].idx])
	}
	return result
}

func (s *CatalogService) GetCardCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}
