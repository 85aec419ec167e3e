package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumora-app/lumora/internal/db"
	"github.com/lumora-app/lumora/internal/repository"
)

// setupTestDB opens an in-memory SQLite DB with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestRecordLikeIdempotent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	created, err := repo.RecordLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	// duplicate like is a no-op, not an error
	created, err = repo.RecordLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, dbase.Model(&db.Like{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordPassToleratesDuplicates(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	require.NoError(t, repo.RecordPass(ctx, 1, 2))
	require.NoError(t, repo.RecordPass(ctx, 1, 2))

	var count int64
	require.NoError(t, dbase.Model(&db.Pass{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHasLikedIsDirectional(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	_, err := repo.RecordLike(ctx, 1, 2)
	require.NoError(t, err)

	liked, err := repo.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.HasLiked(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestExcludedIDsCoversAllEdges(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	_, err := repo.RecordLike(ctx, 1, 2)
	require.NoError(t, err)
	require.NoError(t, repo.RecordPass(ctx, 1, 3))
	require.NoError(t, dbase.Create(&db.Block{BlockerID: 1, BlockedID: 4}).Error)
	require.NoError(t, dbase.Create(&db.Block{BlockerID: 5, BlockedID: 1}).Error)

	excluded, err := repo.ExcludedIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, excluded)
}

func TestExcludedIDsEmptyTablesYieldSelf(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	excluded, err := repo.ExcludedIDs(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7}, excluded)
}

func TestCreateMatchNormalizesPair(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	match, created, err := repo.CreateMatch(ctx, 9, 4)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint64(4), match.UserAID)
	assert.Equal(t, uint64(9), match.UserBID)
	assert.True(t, match.IsActive)
	assert.NotEmpty(t, match.ID)
}

func TestCreateMatchConflictTreatedAsSuccess(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	first, created, err := repo.CreateMatch(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	// racing counterpart creates the reversed pair: same match comes back
	second, created, err := repo.CreateMatch(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, dbase.Model(&db.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindMatchByPairOrderInsensitive(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	created, _, err := repo.CreateMatch(ctx, 3, 8)
	require.NoError(t, err)

	found, err := repo.FindMatchByPair(ctx, 8, 3)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindMatchByPair(ctx, 3, 9)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
