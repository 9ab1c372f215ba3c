package database

import (
	"log"

	"gorm.io/gorm"
)

const watchlistTable = "watchlist"

// normalizeWatchlistNames folds legacy watchlist rows to trimmed lower case
// and removes the duplicates that folding exposes, keeping the oldest row.
// Earlier releases stored names as typed.
func normalizeWatchlistNames(db *gorm.DB) error {
	if !db.Migrator().HasTable(watchlistTable) {
		return nil // Fresh database
	}

	result := db.Exec(`
		DELETE FROM watchlist
		WHERE id NOT IN (
			SELECT MIN(id)
			FROM watchlist
			GROUP BY LOWER(TRIM(card_name))
		)
	`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d duplicate watchlist entries", result.RowsAffected)
	}

	result = db.Exec(`UPDATE watchlist SET card_name = LOWER(TRIM(card_name)) WHERE card_name <> LOWER(TRIM(card_name))`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized %d watchlist names", result.RowsAffected)
	}

	return nil
}

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	return backfillWatchlistCreatedAt(db)
}

// backfillWatchlistCreatedAt stamps rows imported without a timestamp so
// newest-first ordering stays total
func backfillWatchlistCreatedAt(db *gorm.DB) error {
	result := db.Exec(`UPDATE watchlist SET created_at = CURRENT_TIMESTAMP WHERE created_at IS NULL`)
	if result.Error != nil {
		log.Printf("Warning: failed to backfill watchlist created_at: %v", result.Error)
		return nil
	}
	if result.RowsAffected > 0 {
		log.Printf("Backfilled created_at on %d watchlist rows", result.RowsAffected)
	}
	return nil
}
