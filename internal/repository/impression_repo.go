package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumora-app/lumora/internal/db"
)

// maxImpressionsPerPage caps how many shown-records a single feed page
// produces; analytics only needs the head of the page.
const maxImpressionsPerPage = 25

// ImpressionRepository appends best-effort "profile was shown" records.
// Failures here must never reach the feed caller; the discovery service
// logs and drops them.
type ImpressionRepository struct {
	db *gorm.DB
}

func NewImpressionRepository(database *gorm.DB) *ImpressionRepository {
	return &ImpressionRepository{db: database}
}

// RecordShown appends one impression per profile id, truncated to the
// first 25 ids of the page.
func (r *ImpressionRepository) RecordShown(ctx context.Context, viewerID uint64, profileIDs []uint64) error {
	if len(profileIDs) == 0 {
		return nil
	}
	if len(profileIDs) > maxImpressionsPerPage {
		profileIDs = profileIDs[:maxImpressionsPerPage]
	}

	impressions := make([]db.Impression, 0, len(profileIDs))
	for _, id := range profileIDs {
		impressions = append(impressions, db.Impression{
			ViewerID:  viewerID,
			ProfileID: id,
		})
	}
	return r.db.WithContext(ctx).Create(&impressions).Error
}
