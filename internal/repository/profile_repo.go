package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumora-app/lumora/internal/db"
	"github.com/lumora-app/lumora/internal/utils/pagination"
)

// ProfileRepository is the candidate source's storage layer.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// CandidateQuery is the push-down portion of the feed filters: every
// condition the SQL store can express directly. Nil / empty fields impose
// no constraint.
type CandidateQuery struct {
	AgeMin  *int
	AgeMax  *int
	City    *string
	Genders []string

	RelationshipType *string
	Education        *string
	Smoking          *string
	Alcohol          *string
	Kids             *string
	Religion         *string
	Lifestyle        *string

	HeightMin *int
	HeightMax *int
}

// FetchCandidates returns up to limit visible profiles satisfying the
// push-down filters, excluding the given ids, strictly after the cursor
// in (updated_at DESC, id DESC) order.
//
// hide_from_discovery rows are always excluded regardless of filters.
// An empty result is not an error.
func (r *ProfileRepository) FetchCandidates(
	ctx context.Context,
	excludedIDs []uint64,
	q CandidateQuery,
	cursor pagination.Cursor,
	limit int,
) ([]db.Profile, error) {
	query := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("hide_from_discovery = ?", false)

	if len(excludedIDs) > 0 {
		query = query.Where("id NOT IN ?", excludedIDs)
	}

	if q.AgeMin != nil {
		query = query.Where("age >= ?", *q.AgeMin)
	}
	if q.AgeMax != nil {
		query = query.Where("age <= ?", *q.AgeMax)
	}
	if q.City != nil {
		query = query.Where("city LIKE ?", "%"+*q.City+"%")
	}
	if len(q.Genders) > 0 {
		query = query.Where("gender IN ?", q.Genders)
	}

	for col, val := range map[string]*string{
		"relationship_type": q.RelationshipType,
		"education":         q.Education,
		"smoking":           q.Smoking,
		"alcohol":           q.Alcohol,
		"kids":              q.Kids,
		"religion":          q.Religion,
		"lifestyle":         q.Lifestyle,
	} {
		if val != nil {
			query = query.Where(col+" = ?", *val)
		}
	}

	if q.HeightMin != nil {
		query = query.Where("height_cm >= ?", *q.HeightMin)
	}
	if q.HeightMax != nil {
		query = query.Where("height_cm <= ?", *q.HeightMax)
	}

	if !cursor.IsZero() {
		ts := cursor.UpdatedAt()
		query = query.Where(
			"(updated_at < ? OR (updated_at = ? AND id < ?))",
			ts, ts, cursor.ProfileID,
		)
	}

	var profiles []db.Profile
	err := query.
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetProfile loads a single profile by id.
func (r *ProfileRepository) GetProfile(ctx context.Context, id uint64) (*db.Profile, error) {
	var profile db.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
