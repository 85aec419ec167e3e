package db

import (
	"time"
)

// Profile is a candidate's public discovery card.
//
// UpdatedAt is the recency key the feed paginates on: any profile edit
// bumps it and moves the profile to the front of the feed. The composite
// index mirrors the feed query (visibility gate, then keyset order).
type Profile struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	DisplayName string `gorm:"size:64;not null"`
	Age         int    `gorm:"not null;index"`
	Gender      string `gorm:"size:16;not null;index"`
	City        string `gorm:"size:64"`
	Bio         string `gorm:"type:text"`

	Photos     []string `gorm:"serializer:json;type:text"`
	Interests  []string `gorm:"serializer:json;type:text"`
	LookingFor []string `gorm:"serializer:json;type:text"`

	Verified          bool `gorm:"not null;default:false"`
	IsBot             bool `gorm:"not null;default:false"`
	HideFromDiscovery bool `gorm:"not null;default:false;index:idx_discovery,priority:1"`

	RelationshipType string `gorm:"size:32"`
	Education        string `gorm:"size:32"`
	Smoking          string `gorm:"size:16"`
	Alcohol          string `gorm:"size:16"`
	Kids             string `gorm:"size:16"`
	Religion         string `gorm:"size:32"`
	Lifestyle        string `gorm:"size:32"`

	HeightCM int
	Lat      float64
	Lng      float64

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index:idx_discovery,priority:2,sort:desc"`
}

// Like is a directed expression of interest.
//
// Composite PK (FromID, ToID) enforces at most one edge per ordered pair;
// a duplicate like is an insert conflict handled as a no-op. The ToID
// index serves reciprocal-edge lookups during mutual-match detection.
type Like struct {
	FromID    uint64    `gorm:"primaryKey;autoIncrement:false"`
	ToID      uint64    `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Pass is a directed expression of disinterest. Append-only, consulted
// only by the exclusion resolver; it never gates matching.
type Pass struct {
	FromID    uint64    `gorm:"primaryKey;autoIncrement:false"`
	ToID      uint64    `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Block is owned by the moderation system and read-only here. A block
// hides both parties from each other, so the exclusion resolver reads it
// from both directions.
type Block struct {
	BlockerID uint64    `gorm:"primaryKey;autoIncrement:false"`
	BlockedID uint64    `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Match is the chat-enabling pairing of two mutually interested users.
//
// The pair is normalized (UserAID < UserBID) and carries a unique index,
// which is the whole concurrency story for "exactly one match per pair":
// the loser of a racing double-insert gets a duplicate-key conflict and
// reads the winner's row back.
type Match struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserAID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	UserBID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2;index"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// PersonaConfig is the behavior knob set for one automated profile.
//
// Rate resolution: UseOwnRate selects ReciprocationRate (global fallback
// when unset); otherwise the persona inherits its group's rate, or the
// global rate when it has no group.
type PersonaConfig struct {
	UserID            uint64  `gorm:"primaryKey;autoIncrement:false"`
	Active            bool    `gorm:"not null;default:true"`
	GroupID           *uint64 `gorm:"index"`
	UseOwnRate        bool    `gorm:"not null;default:false"`
	ReciprocationRate *int

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// PersonaGroup holds the shared reciprocation rate for a cohort of personas.
type PersonaGroup struct {
	ID                uint64 `gorm:"primaryKey;autoIncrement"`
	Name              string `gorm:"size:64;not null"`
	ReciprocationRate int    `gorm:"not null"`
}

// GlobalPersonaSettings is the single-row fallback for persona behavior.
type GlobalPersonaSettings struct {
	ID                uint64 `gorm:"primaryKey"`
	ReciprocationRate int    `gorm:"not null"`
}

// Impression is a best-effort "profile was shown" analytics record.
type Impression struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ViewerID  uint64    `gorm:"not null;index"`
	ProfileID uint64    `gorm:"not null"`
	ShownAt   time.Time `gorm:"autoCreateTime"`
}
