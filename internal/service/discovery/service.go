package discovery

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lumora-app/lumora/internal/app"
	"github.com/lumora-app/lumora/internal/db"
	svcErr "github.com/lumora-app/lumora/internal/errors"
	"github.com/lumora-app/lumora/internal/metrics"
	"github.com/lumora-app/lumora/internal/repository"
	"github.com/lumora-app/lumora/internal/utils/geo"
	"github.com/lumora-app/lumora/internal/utils/pagination"
)

// impressionTimeout bounds the detached impression write; the feed caller
// never waits on it.
const impressionTimeout = 5 * time.Second

// Service produces the discovery feed: filtered, deduplicated candidate
// pages under keyset pagination, with best-effort impression logging.
type Service struct {
	appCtx          *app.AppContext
	profileRepo     *repository.ProfileRepository
	interactionRepo *repository.InteractionRepository
	impressionRepo  *repository.ImpressionRepository
}

// Page is one feed page. NextCursor is empty when the store is exhausted,
// which the caller must treat as the sole exhaustion signal.
type Page struct {
	Profiles   []db.Profile
	NextCursor string
}

// NewService creates the discovery service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:          appCtx,
		profileRepo:     repository.NewProfileRepository(appCtx.DB),
		interactionRepo: repository.NewInteractionRepository(appCtx.DB),
		impressionRepo:  repository.NewImpressionRepository(appCtx.DB),
	}
}

// FetchPage returns the next feed page for the viewer.
//
// Behavior:
//   - Exclusions (self, liked, passed, blocked either way) and push-down
//     filters are applied in SQL before ordering and limiting.
//   - Ordering is strictly (updated_at DESC, id DESC); the cursor names
//     the last returned row and pages resume strictly after it.
//   - Conditions the store cannot express (interest overlap, online
//     window, premium flag, distance) are post-filtered with bounded
//     lookahead re-fetching so a page is not silently short while more
//     eligible candidates exist.
//   - A non-empty page asynchronously records impressions; that path can
//     never fail the response.
func (s *Service) FetchPage(
	ctx context.Context,
	viewerID uint64,
	cursorToken string,
	pageSize int,
	filters Filters,
) (*Page, error) {
	start := time.Now()

	if viewerID == 0 {
		return nil, svcErr.InvalidArgument("viewer id is required")
	}
	if pageSize <= 0 {
		pageSize = s.appCtx.Cfg.Feed.DefaultPageSize
	}
	if pageSize > s.appCtx.Cfg.Feed.MaxPageSize {
		return nil, svcErr.InvalidArgument("page_size too large")
	}
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	cursor, err := pagination.Decode(cursorToken)
	if err != nil {
		return nil, svcErr.InvalidArgument("invalid cursor")
	}

	excluded, err := s.interactionRepo.ExcludedIDs(ctx, viewerID)
	if err != nil {
		s.appCtx.Logger.Error("exclusion lookup failed", "viewer", viewerID, "err", err)
		return nil, err
	}

	var viewer *db.Profile
	if filters.MaxDistanceKM != nil {
		viewer, err = s.profileRepo.GetProfile(ctx, viewerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.NotFound("viewer profile not found")
		}
		if err != nil {
			return nil, err
		}
	}

	query := filters.pushdown()

	// With post-filters in play, each batch over-fetches so a page is
	// usually filled in one or two round trips.
	batchSize := pageSize
	if filters.needsPostFilter() {
		batchSize = pageSize * 3
	}

	collected := make([]db.Profile, 0, pageSize)
	scanCursor := cursor
	for attempt := 0; attempt < s.appCtx.Cfg.Feed.MaxLookahead; attempt++ {
		rows, err := s.profileRepo.FetchCandidates(ctx, excluded, query, scanCursor, batchSize)
		if err != nil {
			s.appCtx.Logger.Error("candidate fetch failed", "viewer", viewerID, "err", err)
			return nil, err
		}
		if len(rows) == 0 {
			break
		}

		kept, err := s.applyPostFilters(ctx, viewer, filters, rows)
		if err != nil {
			return nil, err
		}
		collected = append(collected, kept...)

		if len(rows) < batchSize || len(collected) >= pageSize {
			break
		}

		last := rows[len(rows)-1]
		scanCursor = pagination.Cursor{UpdatedUnix: last.UpdatedAt.UnixMilli(), ProfileID: last.ID}
	}

	if len(collected) > pageSize {
		collected = collected[:pageSize]
	}

	nextCursor := ""
	if len(collected) == pageSize {
		last := collected[len(collected)-1]
		nextCursor = pagination.Encode(pagination.Cursor{
			UpdatedUnix: last.UpdatedAt.UnixMilli(),
			ProfileID:   last.ID,
		})
	}

	if len(collected) > 0 {
		s.recordImpressions(viewerID, collected)
	}

	metrics.RecordFeedPage(len(collected), time.Since(start))

	return &Page{Profiles: collected, NextCursor: nextCursor}, nil
}

// applyPostFilters evaluates the conditions that could not be pushed down.
func (s *Service) applyPostFilters(
	ctx context.Context,
	viewer *db.Profile,
	filters Filters,
	rows []db.Profile,
) ([]db.Profile, error) {
	if !filters.needsPostFilter() {
		return rows, nil
	}

	ids := make([]uint64, len(rows))
	for i, p := range rows {
		ids[i] = p.ID
	}

	var lastActive map[uint64]time.Time
	var premium map[uint64]bool
	var err error
	if filters.OnlineOnly {
		lastActive, err = s.appCtx.RedisCache.LastActiveBatch(ctx, ids)
		if err != nil {
			return nil, err
		}
	}
	if filters.PremiumOnly {
		premium, err = s.appCtx.RedisCache.PremiumBatch(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	kept := make([]db.Profile, 0, len(rows))
	for _, p := range rows {
		if !hasInterestOverlap(p.Interests, filters.Interests) {
			continue
		}
		if filters.OnlineOnly {
			ts, ok := lastActive[p.ID]
			if !ok || now.Sub(ts) > OnlineWindow {
				continue
			}
		}
		if filters.PremiumOnly && !premium[p.ID] {
			continue
		}
		if filters.MaxDistanceKM != nil && viewer != nil {
			if geo.DistanceKM(viewer.Lat, viewer.Lng, p.Lat, p.Lng) > *filters.MaxDistanceKM {
				continue
			}
		}
		kept = append(kept, p)
	}
	return kept, nil
}

// recordImpressions hands the shown page to the impression recorder on
// the async pool. Every failure is logged and discarded.
func (s *Service) recordImpressions(viewerID uint64, profiles []db.Profile) {
	ids := make([]uint64, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}

	submitErr := s.appCtx.Pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), impressionTimeout)
		defer cancel()

		if err := s.impressionRepo.RecordShown(ctx, viewerID, ids); err != nil {
			s.appCtx.Logger.Warn("impression recording failed", "viewer", viewerID, "err", err)
			metrics.RecordImpressionBatch(false)
			return
		}
		metrics.RecordImpressionBatch(true)
	})
	if submitErr != nil {
		s.appCtx.Logger.Warn("impression submit failed", "viewer", viewerID, "err", submitErr)
		metrics.RecordImpressionBatch(false)
	}
}
