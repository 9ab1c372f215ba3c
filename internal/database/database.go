package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/poketrack/internal/models"
)

var DB *gorm.DB

// Initialize connects to the watchlist database and brings its schema up to
// date. driver is "sqlite" (dsn is a file path) or "postgres".
func Initialize(driver, dsn string) error {
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	log.Printf("Database connected successfully (%s)", driver)

	return Migrate(DB)
}

// Migrate cleans legacy rows and auto-migrates the schema
func Migrate(db *gorm.DB) error {
	// Must run before AutoMigrate adds the unique index
	if err := normalizeWatchlistNames(db); err != nil {
		return fmt.Errorf("failed to normalize watchlist names: %w", err)
	}

	if err := db.AutoMigrate(&models.WatchlistItem{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite", "":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func GetDB() *gorm.DB {
	return DB
}
