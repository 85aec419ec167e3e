package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/lumora-app/lumora/internal/async"
	"github.com/lumora-app/lumora/internal/cache"
	"github.com/lumora-app/lumora/internal/config"
	"github.com/lumora-app/lumora/internal/notify"
)

// AppContext holds shared dependencies (DB, Redis, async pool, notifier, logger).
type AppContext struct {
	Cfg        *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Pool       async.Runner
	Notifier   notify.Dispatcher
	Logger     *slog.Logger
}

// New creates a new AppContext.
func New(
	cfg *config.Config,
	database *gorm.DB,
	rdb *cache.RedisCache,
	pool async.Runner,
	notifier notify.Dispatcher,
	logger *slog.Logger,
) *AppContext {
	return &AppContext{
		Cfg:        cfg,
		DB:         database,
		RedisCache: rdb,
		Pool:       pool,
		Notifier:   notifier,
		Logger:     logger,
	}
}
