package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/filmatch/internal/config"
)

// NewDB initializes the database connection using DSN from config.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true, // duplicate keys surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate keeps the schema in sync with the models. Also used by tests
// against in-memory SQLite.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Movie{}, "Genres", &MovieGenre{}); err != nil {
		return fmt.Errorf("failed to set up join table: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &Genre{}, &Movie{}, &MovieGenre{}, &Connection{}, &Interest{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
