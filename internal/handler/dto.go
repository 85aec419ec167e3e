package handler

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/lumora-app/lumora/internal/db"
	"github.com/lumora-app/lumora/internal/service/discovery"
)

// knownGenders bounds the gender vocabulary accepted in filters.
var knownGenders = map[string]struct{}{
	"male":      {},
	"female":    {},
	"nonbinary": {},
	"other":     {},
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
			_, ok := knownGenders[strings.ToLower(fl.Field().String())]
			return ok
		})
	}
}

// FeedRequest carries the viewer's cursor, page size and filter
// configuration. Every filter field is optional; unset fields impose no
// constraint.
type FeedRequest struct {
	Cursor   string `form:"cursor"`
	PageSize int    `form:"page_size" binding:"omitempty,gte=1"`

	AgeMin *int    `form:"age_min" binding:"omitempty,gte=18,lte=120"`
	AgeMax *int    `form:"age_max" binding:"omitempty,gte=18,lte=120"`
	City   *string `form:"city"`

	Genders   []string `form:"genders" collection_format:"csv" binding:"omitempty,dive,gender"`
	Interests []string `form:"interests" collection_format:"csv"`

	OnlineOnly  bool `form:"online_only"`
	PremiumOnly bool `form:"premium_only"`

	RelationshipType *string `form:"relationship_type"`
	Education        *string `form:"education"`
	Smoking          *string `form:"smoking"`
	Alcohol          *string `form:"alcohol"`
	Kids             *string `form:"kids"`
	Religion         *string `form:"religion"`
	Lifestyle        *string `form:"lifestyle"`

	HeightMin *int `form:"height_min" binding:"omitempty,gte=100,lte=250"`
	HeightMax *int `form:"height_max" binding:"omitempty,gte=100,lte=250"`

	MaxDistanceKM *float64 `form:"max_distance_km" binding:"omitempty,gt=0"`
}

func (r FeedRequest) toFilters() discovery.Filters {
	return discovery.Filters{
		AgeMin:           r.AgeMin,
		AgeMax:           r.AgeMax,
		City:             r.City,
		Genders:          r.Genders,
		Interests:        r.Interests,
		OnlineOnly:       r.OnlineOnly,
		PremiumOnly:      r.PremiumOnly,
		RelationshipType: r.RelationshipType,
		Education:        r.Education,
		Smoking:          r.Smoking,
		Alcohol:          r.Alcohol,
		Kids:             r.Kids,
		Religion:         r.Religion,
		Lifestyle:        r.Lifestyle,
		HeightMin:        r.HeightMin,
		HeightMax:        r.HeightMax,
		MaxDistanceKM:    r.MaxDistanceKM,
	}
}

// LikeRequest is the body of POST /v1/likes.
type LikeRequest struct {
	ToUserID uint64 `json:"to_user_id" binding:"required"`
}

// PassRequest is the body of POST /v1/passes.
type PassRequest struct {
	ToUserID uint64 `json:"to_user_id" binding:"required"`
}

// ProfileView is the candidate card shape returned by the feed.
type ProfileView struct {
	ID          uint64   `json:"id"`
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	City        string   `json:"city,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Photos      []string `json:"photos,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	Verified    bool     `json:"verified"`
	HeightCM    int      `json:"height_cm,omitempty"`
	UpdatedAt   int64    `json:"updated_at"`
}

// FeedResponse is one feed page. NextCursor is empty when the feed is
// exhausted.
type FeedResponse struct {
	Profiles   []ProfileView `json:"profiles"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// LikeResponse is the outcome of a like action.
type LikeResponse struct {
	IsMatch bool   `json:"is_match"`
	IsBot   bool   `json:"is_bot"`
	MatchID string `json:"match_id,omitempty"`
}

func toProfileView(p db.Profile) ProfileView {
	return ProfileView{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Age:         p.Age,
		Gender:      p.Gender,
		City:        p.City,
		Bio:         p.Bio,
		Photos:      p.Photos,
		Interests:   p.Interests,
		Verified:    p.Verified,
		HeightCM:    p.HeightCM,
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
	}
}

func toFeedResponse(page *discovery.Page) FeedResponse {
	resp := FeedResponse{
		Profiles:   make([]ProfileView, 0, len(page.Profiles)),
		NextCursor: page.NextCursor,
	}
	for _, p := range page.Profiles {
		resp.Profiles = append(resp.Profiles, toProfileView(p))
	}
	return resp
}
