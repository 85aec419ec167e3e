package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumora-app/lumora/internal/db"
	"github.com/lumora-app/lumora/internal/repository"
	"github.com/lumora-app/lumora/internal/utils/pagination"
)

// seedProfile inserts a profile and pins its updated_at so recency order
// is deterministic.
func seedProfile(t *testing.T, dbase *gorm.DB, p db.Profile, updatedAt time.Time) db.Profile {
	t.Helper()
	if p.DisplayName == "" {
		p.DisplayName = fmt.Sprintf("user_%d", time.Now().UnixNano())
	}
	if p.Age == 0 {
		p.Age = 30
	}
	if p.Gender == "" {
		p.Gender = "female"
	}
	require.NoError(t, dbase.Create(&p).Error)
	require.NoError(t, dbase.Model(&db.Profile{}).
		Where("id = ?", p.ID).
		UpdateColumn("updated_at", updatedAt.UTC().Truncate(time.Millisecond)).Error)
	p.UpdatedAt = updatedAt
	return p
}

func candidateIDs(profiles []db.Profile) []uint64 {
	ids := make([]uint64, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFetchCandidatesRecencyOrder(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	p3 := seedProfile(t, dbase, db.Profile{}, base)                  // 08:00
	p2 := seedProfile(t, dbase, db.Profile{}, base.Add(time.Hour))   // 09:00
	p1 := seedProfile(t, dbase, db.Profile{}, base.Add(2*time.Hour)) // 10:00

	page, err := repo.FetchCandidates(ctx, nil, repository.CandidateQuery{}, pagination.Cursor{}, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{p1.ID, p2.ID, p3.ID}, candidateIDs(page))
}

func TestFetchCandidatesKeysetPagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var all []db.Profile
	for i := 0; i < 7; i++ {
		all = append(all, seedProfile(t, dbase, db.Profile{}, base.Add(time.Duration(i)*time.Minute)))
	}

	var seen []uint64
	cursor := pagination.Cursor{}
	for {
		page, err := repo.FetchCandidates(ctx, nil, repository.CandidateQuery{}, cursor, 3)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		seen = append(seen, candidateIDs(page)...)
		last := page[len(page)-1]
		cursor = pagination.Cursor{UpdatedUnix: last.UpdatedAt.UnixMilli(), ProfileID: last.ID}
		if len(page) < 3 {
			break
		}
	}

	// every profile appears exactly once, newest first
	require.Len(t, seen, 7)
	for i, p := range all {
		assert.Equal(t, p.ID, seen[len(all)-1-i])
	}
}

func TestFetchCandidatesTieBreakOnID(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := seedProfile(t, dbase, db.Profile{}, ts)
	b := seedProfile(t, dbase, db.Profile{}, ts)

	page, err := repo.FetchCandidates(ctx, nil, repository.CandidateQuery{}, pagination.Cursor{}, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, b.ID, page[0].ID)

	cursor := pagination.Cursor{UpdatedUnix: page[0].UpdatedAt.UnixMilli(), ProfileID: page[0].ID}
	page, err = repo.FetchCandidates(ctx, nil, repository.CandidateQuery{}, cursor, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, a.ID, page[0].ID)
}

func TestFetchCandidatesExcludesHiddenAlways(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	now := time.Now()
	visible := seedProfile(t, dbase, db.Profile{}, now)
	seedProfile(t, dbase, db.Profile{HideFromDiscovery: true}, now.Add(time.Hour))

	page, err := repo.FetchCandidates(ctx, nil, repository.CandidateQuery{}, pagination.Cursor{}, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{visible.ID}, candidateIDs(page))
}

func TestFetchCandidatesHonorsExclusionSet(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	now := time.Now()
	keep := seedProfile(t, dbase, db.Profile{}, now)
	drop := seedProfile(t, dbase, db.Profile{}, now.Add(time.Minute))

	page, err := repo.FetchCandidates(ctx, []uint64{drop.ID}, repository.CandidateQuery{}, pagination.Cursor{}, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{keep.ID}, candidateIDs(page))
}

func TestFetchCandidatesPushDownFilters(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	now := time.Now()
	match := seedProfile(t, dbase, db.Profile{
		Age: 30, Gender: "female", City: "East London",
		Smoking: "never", HeightCM: 170,
	}, now)
	seedProfile(t, dbase, db.Profile{Age: 21, Gender: "female", City: "London", Smoking: "never", HeightCM: 170}, now)            // too young
	seedProfile(t, dbase, db.Profile{Age: 30, Gender: "male", City: "London", Smoking: "never", HeightCM: 170}, now)             // wrong gender
	seedProfile(t, dbase, db.Profile{Age: 30, Gender: "female", City: "Manchester", Smoking: "never", HeightCM: 170}, now)       // wrong city
	seedProfile(t, dbase, db.Profile{Age: 30, Gender: "female", City: "London", Smoking: "often", HeightCM: 170}, now)           // lifestyle mismatch
	seedProfile(t, dbase, db.Profile{Age: 30, Gender: "female", City: "London", Smoking: "never", HeightCM: 150}, now)           // too short
	tall := seedProfile(t, dbase, db.Profile{Age: 30, Gender: "female", City: "Central London", Smoking: "never", HeightCM: 180}, now.Add(-time.Minute))

	q := repository.CandidateQuery{
		AgeMin:    intPtr(25),
		AgeMax:    intPtr(35),
		City:      strPtr("London"),
		Genders:   []string{"female"},
		Smoking:   strPtr("never"),
		HeightMin: intPtr(160),
		HeightMax: intPtr(190),
	}
	page, err := repo.FetchCandidates(ctx, nil, q, pagination.Cursor{}, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{match.ID, tall.ID}, candidateIDs(page))
}

func TestFetchCandidatesUnsetFiltersMatchEverything(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	now := time.Now()
	for i := 0; i < 4; i++ {
		seedProfile(t, dbase, db.Profile{}, now.Add(time.Duration(i)*time.Second))
	}

	page, err := repo.FetchCandidates(ctx, nil, repository.CandidateQuery{}, pagination.Cursor{}, 10)
	require.NoError(t, err)
	assert.Len(t, page, 4)
}

func TestFetchCandidatesEmptyStore(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	page, err := repo.FetchCandidates(ctx, nil, repository.CandidateQuery{}, pagination.Cursor{}, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
