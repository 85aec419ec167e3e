package engagement

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/lumora-app/lumora/internal/app"
	"github.com/lumora-app/lumora/internal/db"
	svcErr "github.com/lumora-app/lumora/internal/errors"
	"github.com/lumora-app/lumora/internal/metrics"
	"github.com/lumora-app/lumora/internal/repository"
)

// notifyTimeout bounds the detached notification dispatch.
const notifyTimeout = 5 * time.Second

// Service handles expressed interest: it records likes and passes,
// evaluates persona reciprocation, and detects and creates mutual
// matches.
type Service struct {
	appCtx          *app.AppContext
	profileRepo     *repository.ProfileRepository
	interactionRepo *repository.InteractionRepository
	personaRepo     *repository.PersonaRepository

	// draw is the uniform source for persona decisions; injectable so
	// rate-boundary tests are deterministic.
	draw func() float64
}

// LikeResult is the outcome of a like action. IsMatch false with a nil
// error means "liked, no match yet"; a storage failure surfaces as an
// error instead so callers can distinguish the two.
type LikeResult struct {
	IsMatch bool
	IsBot   bool
	MatchID string
}

// NewService creates the engagement service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:          appCtx,
		profileRepo:     repository.NewProfileRepository(appCtx.DB),
		interactionRepo: repository.NewInteractionRepository(appCtx.DB),
		personaRepo:     repository.NewPersonaRepository(appCtx.DB),
		draw:            rand.Float64,
	}
}

// Like records a directed expression of interest and resolves its match
// outcome.
//
// Behavior:
//   - The like edge is recorded durably (idempotently) before any mutual
//     check or persona decision reads the ledger.
//   - Bot target: the persona reciprocation policy decides; reciprocation
//     creates the match directly.
//   - Human target: a pre-existing reciprocal edge creates the match,
//     exactly once even when both sides race; a duplicate-key conflict is
//     reported as success with the winner's match id.
//   - Match creation triggers a fire-and-forget notification dispatch.
func (s *Service) Like(ctx context.Context, fromID, toID uint64) (*LikeResult, error) {
	if fromID == 0 || toID == 0 {
		return nil, svcErr.InvalidArgument("from and to user ids are required")
	}
	if fromID == toID {
		return nil, svcErr.InvalidArgument("cannot like yourself")
	}

	target, err := s.profileRepo.GetProfile(ctx, toID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("target profile not found")
	}
	if err != nil {
		return nil, err
	}

	created, err := s.interactionRepo.RecordLike(ctx, fromID, toID)
	if err != nil {
		s.appCtx.Logger.Error("like record failed", "from", fromID, "to", toID, "err", err)
		return nil, err
	}
	if created {
		// best-effort counter, same as the feed's impression channel
		_ = s.appCtx.RedisCache.BumpLikeCount(ctx, toID)
	}

	var result *LikeResult
	if target.IsBot {
		result, err = s.personaDecision(ctx, fromID, toID)
	} else {
		result, err = s.humanMutualCheck(ctx, fromID, toID)
	}
	if err != nil {
		return nil, err
	}

	targetKind := "human"
	if result.IsBot {
		targetKind = "bot"
	}
	outcome := "no_match"
	if result.IsMatch {
		outcome = "match"
	}
	metrics.RecordLike(targetKind, outcome)

	return result, nil
}

// Pass records disinterest. Duplicates are tolerated; passes only feed
// the exclusion resolver.
func (s *Service) Pass(ctx context.Context, fromID, toID uint64) error {
	if fromID == 0 || toID == 0 {
		return svcErr.InvalidArgument("from and to user ids are required")
	}
	if fromID == toID {
		return svcErr.InvalidArgument("cannot pass on yourself")
	}
	return s.interactionRepo.RecordPass(ctx, fromID, toID)
}

// personaDecision evaluates the probabilistic reciprocation policy for a
// bot target. The draw is fresh per like; nothing is memoized.
func (s *Service) personaDecision(ctx context.Context, fromID, toID uint64) (*LikeResult, error) {
	cfg, err := s.personaRepo.GetPersonaConfig(ctx, toID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// unconfigured persona behaves like an inactive one
		metrics.RecordPersonaDecision("inactive")
		return &LikeResult{IsBot: true}, nil
	}
	if err != nil {
		return nil, err
	}
	if !cfg.Active {
		metrics.RecordPersonaDecision("inactive")
		return &LikeResult{IsBot: true}, nil
	}

	var group *db.PersonaGroup
	if !cfg.UseOwnRate && cfg.GroupID != nil {
		g, err := s.personaRepo.GetGroup(ctx, *cfg.GroupID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		group = g
	}

	global, err := s.personaRepo.GetGlobalSettings(ctx)
	if err != nil {
		return nil, err
	}

	rate := ResolveRate(cfg, group, global)
	if !decide(rate, s.draw) {
		metrics.RecordPersonaDecision("declined")
		return &LikeResult{IsBot: true}, nil
	}

	// The reciprocation act is the match; the persona side of the ledger
	// is never separately recorded.
	match, createdNow, err := s.interactionRepo.CreateMatch(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	metrics.RecordPersonaDecision("reciprocated")
	if createdNow {
		metrics.RecordMatch()
		s.dispatchMatchNotification(fromID, match.ID)
	}

	return &LikeResult{IsMatch: true, IsBot: true, MatchID: match.ID}, nil
}

// humanMutualCheck looks for the reciprocal edge and creates the match
// when interest is mutual.
func (s *Service) humanMutualCheck(ctx context.Context, fromID, toID uint64) (*LikeResult, error) {
	liked, err := s.interactionRepo.HasLiked(ctx, toID, fromID)
	if err != nil {
		return nil, err
	}
	if !liked {
		return &LikeResult{}, nil
	}

	match, createdNow, err := s.interactionRepo.CreateMatch(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if createdNow {
		metrics.RecordMatch()
		s.dispatchMatchNotification(toID, match.ID)
	}

	return &LikeResult{IsMatch: true, MatchID: match.ID}, nil
}

// dispatchMatchNotification fires the notification request on the async
// pool. Failures are logged and discarded; they never reach the liking
// user's result.
func (s *Service) dispatchMatchNotification(toUserID uint64, matchID string) {
	submitErr := s.appCtx.Pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.appCtx.Notifier.DispatchMatch(ctx, toUserID, matchID); err != nil {
			s.appCtx.Logger.Warn("match notification failed", "to", toUserID, "match", matchID, "err", err)
		}
	})
	if submitErr != nil {
		s.appCtx.Logger.Warn("match notification submit failed", "to", toUserID, "match", matchID, "err", submitErr)
	}
}
