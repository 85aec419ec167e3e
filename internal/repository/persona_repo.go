package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lumora-app/lumora/internal/db"
)

// PersonaRepository reads the persona behavior configuration owned by the
// persona-management collaborator. All lookups are read-only.
type PersonaRepository struct {
	db *gorm.DB
}

func NewPersonaRepository(database *gorm.DB) *PersonaRepository {
	return &PersonaRepository{db: database}
}

// GetPersonaConfig loads the per-persona config for a bot profile.
// gorm.ErrRecordNotFound passes through; callers treat a missing config
// as an inactive persona.
func (r *PersonaRepository) GetPersonaConfig(ctx context.Context, userID uint64) (*db.PersonaConfig, error) {
	var cfg db.PersonaConfig
	if err := r.db.WithContext(ctx).First(&cfg, userID).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetGroup loads a persona group by id.
func (r *PersonaRepository) GetGroup(ctx context.Context, groupID uint64) (*db.PersonaGroup, error) {
	var group db.PersonaGroup
	if err := r.db.WithContext(ctx).First(&group, groupID).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGlobalSettings loads the single-row global fallback. A missing row
// yields the zero-rate default rather than an error.
func (r *PersonaRepository) GetGlobalSettings(ctx context.Context) (*db.GlobalPersonaSettings, error) {
	var settings db.GlobalPersonaSettings
	err := r.db.WithContext(ctx).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &db.GlobalPersonaSettings{ReciprocationRate: 0}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
