package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumora-app/lumora/internal/db"
)

// InteractionRepository is the interest ledger plus match storage: likes,
// passes, block reads and match creation live here.
type InteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new repository bound to the given DB connection.
func NewInteractionRepository(database *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: database}
}

// RecordLike inserts the directed like edge if absent.
//
// Behavior:
//   - Composite PK (from_id, to_id) makes the insert idempotent: a
//     duplicate like is a no-op, never an error.
//   - Returns whether a new edge was created, so callers bump counters
//     only once per pair.
//   - The row is durably committed before any mutual check reads the
//     ledger; a racing reciprocal like cannot miss it.
func (r *InteractionRepository) RecordLike(ctx context.Context, fromID, toID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_id"}, {Name: "to_id"}},
			DoNothing: true,
		}).
		Create(&db.Like{FromID: fromID, ToID: toID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RecordPass inserts the directed pass edge. Duplicates are tolerated;
// passes only gate exclusion, never matching.
func (r *InteractionRepository) RecordPass(ctx context.Context, fromID, toID uint64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_id"}, {Name: "to_id"}},
			DoNothing: true,
		}).
		Create(&db.Pass{FromID: fromID, ToID: toID}).Error
}

// HasLiked checks whether the directed like edge (from -> to) exists.
// Used for reciprocal-edge lookup during mutual-match detection.
func (r *InteractionRepository) HasLiked(ctx context.Context, fromID, toID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("from_id = ? AND to_id = ?", fromID, toID).
		Count(&count).Error
	return count > 0, err
}

// ExcludedIDs computes the set of user ids the viewer must never see:
// the viewer themself, everyone already liked or passed, and both sides
// of every block edge touching the viewer.
//
// Recomputed per request; likes, passes and blocks can land between feed
// pages.
func (r *InteractionRepository) ExcludedIDs(ctx context.Context, viewerID uint64) ([]uint64, error) {
	seen := map[uint64]struct{}{viewerID: {}}

	var ids []uint64
	if err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("from_id = ?", viewerID).
		Pluck("to_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	ids = ids[:0]
	if err := r.db.WithContext(ctx).
		Model(&db.Pass{}).
		Where("from_id = ?", viewerID).
		Pluck("to_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	ids = ids[:0]
	if err := r.db.WithContext(ctx).
		Model(&db.Block{}).
		Where("blocker_id = ?", viewerID).
		Pluck("blocked_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	ids = ids[:0]
	if err := r.db.WithContext(ctx).
		Model(&db.Block{}).
		Where("blocked_id = ?", viewerID).
		Pluck("blocker_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	out := make([]uint64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// CreateMatch materializes the match for an unordered pair.
//
// Behavior:
//   - The pair is normalized (user_a_id < user_b_id); the unique index on
//     the normalized pair is the concurrency control.
//   - A duplicate-key conflict means a racing counterpart already created
//     the match: the existing row is read back and reported with
//     created=false. Both participants observe the same match id.
func (r *InteractionRepository) CreateMatch(ctx context.Context, userA, userB uint64) (*db.Match, bool, error) {
	a, b := normalizePair(userA, userB)

	match := db.Match{
		ID:       uuid.NewString(),
		UserAID:  a,
		UserBID:  b,
		IsActive: true,
	}
	err := r.db.WithContext(ctx).Create(&match).Error
	if err == nil {
		return &match, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	existing, ferr := r.FindMatchByPair(ctx, a, b)
	if ferr != nil {
		return nil, false, ferr
	}
	return existing, false, nil
}

// FindMatchByPair returns the match row for an unordered pair, if any.
func (r *InteractionRepository) FindMatchByPair(ctx context.Context, userA, userB uint64) (*db.Match, error) {
	a, b := normalizePair(userA, userB)

	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func normalizePair(a, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}
	return a, b
}
