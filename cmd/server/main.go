package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/lumora-app/lumora/internal/app"
	"github.com/lumora-app/lumora/internal/async"
	"github.com/lumora-app/lumora/internal/cache"
	"github.com/lumora-app/lumora/internal/config"
	"github.com/lumora-app/lumora/internal/db"
	"github.com/lumora-app/lumora/internal/logger"
	"github.com/lumora-app/lumora/internal/notify"
	"github.com/lumora-app/lumora/internal/server"
)

func main() {
	_ = godotenv.Load()

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

	// Async pool for impressions and notification dispatch
	pool, err := async.NewPool(cfg.Async.PoolSize, cfg.Async.ReleaseTimeout)
	if err != nil {
		log.Error("failed to init async pool", "err", err)
		return
	}
	defer func() { _ = pool.Release() }()

	notifier := notify.NewHTTPDispatcher(cfg)

	appCtx := app.New(cfg, database, redisCache, pool, notifier, log)

	if cfg.App.Env == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	engine := server.NewRouter(appCtx)

	log.Info("starting HTTP server", "addr", cfg.HTTP.Host+":"+cfg.HTTP.Port)
	if err := server.StartHTTPServer(appCtx, engine); err != nil {
		log.Error("http server exited", "err", err)
	}
}
