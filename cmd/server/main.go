package main

import (
	"context"

	"github.com/oggyb/filmatch/internal/app"
	"github.com/oggyb/filmatch/internal/cache"
	"github.com/oggyb/filmatch/internal/config"
	"github.com/oggyb/filmatch/internal/db"
	"github.com/oggyb/filmatch/internal/logger"
	"github.com/oggyb/filmatch/internal/server"
	"github.com/oggyb/filmatch/internal/service/auth"
	"github.com/oggyb/filmatch/internal/service/feed"
	"github.com/oggyb/filmatch/internal/service/match"
	"github.com/oggyb/filmatch/internal/service/social"
	"github.com/oggyb/filmatch/internal/tmdb"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Catalog source client, constructed once and injected
	catalogClient := tmdb.NewHTTPClient(cfg, redisCache)

	appCtx := app.New(database, redisCache, catalogClient, log)

	registrars := []server.Registrar{
		auth.NewRegistrar(appCtx),
		social.NewRegistrar(appCtx),
		feed.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
