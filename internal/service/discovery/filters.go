package discovery

import (
	"time"

	svcErr "github.com/lumora-app/lumora/internal/errors"
	"github.com/lumora-app/lumora/internal/repository"
)

// OnlineWindow is the fixed recency window for the online-only filter: a
// candidate counts as online when their last activity falls within it.
const OnlineWindow = 10 * time.Minute

// Filters is the viewer's feed filter configuration. Every field is
// independently optional; an unset field imposes no constraint and the
// set fields combine as a conjunction.
type Filters struct {
	AgeMin *int
	AgeMax *int

	City      *string
	Genders   []string
	Interests []string

	OnlineOnly  bool
	PremiumOnly bool

	RelationshipType *string
	Education        *string
	Smoking          *string
	Alcohol          *string
	Kids             *string
	Religion         *string
	Lifestyle        *string

	HeightMin *int
	HeightMax *int

	MaxDistanceKM *float64
}

// Validate rejects malformed filter values before any storage access.
func (f Filters) Validate() error {
	if f.AgeMin != nil && *f.AgeMin < 18 {
		return svcErr.InvalidArgument("age_min must be at least 18")
	}
	if f.AgeMax != nil && *f.AgeMax < 18 {
		return svcErr.InvalidArgument("age_max must be at least 18")
	}
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		return svcErr.InvalidArgument("age_min must not exceed age_max")
	}
	if f.HeightMin != nil && f.HeightMax != nil && *f.HeightMin > *f.HeightMax {
		return svcErr.InvalidArgument("height_min must not exceed height_max")
	}
	if f.MaxDistanceKM != nil && *f.MaxDistanceKM <= 0 {
		return svcErr.InvalidArgument("max_distance_km must be positive")
	}
	return nil
}

// pushdown extracts the conditions the SQL store evaluates directly.
func (f Filters) pushdown() repository.CandidateQuery {
	return repository.CandidateQuery{
		AgeMin:           f.AgeMin,
		AgeMax:           f.AgeMax,
		City:             f.City,
		Genders:          f.Genders,
		RelationshipType: f.RelationshipType,
		Education:        f.Education,
		Smoking:          f.Smoking,
		Alcohol:          f.Alcohol,
		Kids:             f.Kids,
		Religion:         f.Religion,
		Lifestyle:        f.Lifestyle,
		HeightMin:        f.HeightMin,
		HeightMax:        f.HeightMax,
	}
}

// needsPostFilter reports whether any condition must be evaluated after
// the fetch (interest overlap, Redis-backed liveness/premium, distance).
func (f Filters) needsPostFilter() bool {
	return len(f.Interests) > 0 || f.OnlineOnly || f.PremiumOnly || f.MaxDistanceKM != nil
}

func hasInterestOverlap(candidate, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(candidate))
	for _, tag := range candidate {
		set[tag] = struct{}{}
	}
	for _, tag := range wanted {
		if _, ok := set[tag]; ok {
			return true
		}
	}
	return false
}
