package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lumora-app/lumora/internal/config"
)

// Models lists every table the engine owns, in migration order.
func Models() []any {
	return []any{
		&Profile{},
		&Like{},
		&Pass{},
		&Block{},
		&Match{},
		&PersonaConfig{},
		&PersonaGroup{},
		&GlobalPersonaSettings{},
		&Impression{},
	}
}

// NewDB initializes the database connection using DSN from config.
// TranslateError is required: match creation relies on duplicate-key
// conflicts surfacing as gorm.ErrDuplicatedKey.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := database.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return database, nil
}
