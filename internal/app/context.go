package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/filmatch/internal/cache"
	"github.com/oggyb/filmatch/internal/tmdb"
)

// AppContext holds shared dependencies (DB, Redis, catalog client, Logger, etc.)
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Catalog    tmdb.Client
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, catalog tmdb.Client, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Catalog:    catalog,
		Logger:     logger,
	}
}
