package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/poketrack/internal/metrics"
	"github.com/codyseavey/poketrack/internal/models"
)

var ErrEmptyCardName = errors.New("card_name must not be empty")

// WatchlistService persists saved cards. Names are stored lower-cased so the
// same card can only be saved once regardless of how it was typed.
type WatchlistService struct {
	db *gorm.DB
}

func NewWatchlistService(db *gorm.DB) *WatchlistService {
	return &WatchlistService{db: db}
}

func normalizeCardName(cardName string) string {
	return models.WatchlistKey(strings.TrimSpace(cardName))
}

// Add saves cardName. Saving a card that is already present is a no-op.
func (s *WatchlistService) Add(cardName string) error {
	name := normalizeCardName(cardName)
	if name == "" {
		return ErrEmptyCardName
	}

	item := models.WatchlistItem{CardName: name}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_name"}},
		DoNothing: true,
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add %q to watchlist: %w", name, err)
	}

	metrics.WatchlistMutationsTotal.WithLabelValues("add").Inc()
	s.refreshSizeMetric()
	return nil
}

// Remove deletes cardName. Removing a card that is not saved is a no-op.
func (s *WatchlistService) Remove(cardName string) error {
	name := normalizeCardName(cardName)
	if name == "" {
		return ErrEmptyCardName
	}

	if err := s.db.Where("card_name = ?", name).Delete(&models.WatchlistItem{}).Error; err != nil {
		return fmt.Errorf("failed to remove %q from watchlist: %w", name, err)
	}

	metrics.WatchlistMutationsTotal.WithLabelValues("remove").Inc()
	s.refreshSizeMetric()
	return nil
}

// List returns every saved card, newest first
func (s *WatchlistService) List() ([]models.WatchlistItem, error) {
	items := []models.WatchlistItem{}
	if err := s.db.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	metrics.WatchlistSize.Set(float64(len(items)))
	return items, nil
}

func (s *WatchlistService) refreshSizeMetric() {
	var count int64
	if err := s.db.Model(&models.WatchlistItem{}).Count(&count).Error; err == nil {
		metrics.WatchlistSize.Set(float64(count))
	}
}
