package engagement

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumora-app/lumora/internal/db"
)

func TestResolveRatePrecedence(t *testing.T) {
	global := &db.GlobalPersonaSettings{ReciprocationRate: 25}
	group := &db.PersonaGroup{ReciprocationRate: 60}

	cases := []struct {
		name    string
		persona *db.PersonaConfig
		group   *db.PersonaGroup
		want    int
	}{
		{
			name:    "own rate set",
			persona: &db.PersonaConfig{UseOwnRate: true, ReciprocationRate: ratePtr(80)},
			group:   group,
			want:    80,
		},
		{
			name:    "own rate zero is a real override",
			persona: &db.PersonaConfig{UseOwnRate: true, ReciprocationRate: ratePtr(0)},
			group:   group,
			want:    0,
		},
		{
			name:    "own rate opted in but unset falls back to global",
			persona: &db.PersonaConfig{UseOwnRate: true},
			group:   group,
			want:    25,
		},
		{
			name:    "inherit takes group rate",
			persona: &db.PersonaConfig{},
			group:   group,
			want:    60,
		},
		{
			name:    "inherit without group takes global rate",
			persona: &db.PersonaConfig{},
			group:   nil,
			want:    25,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveRate(tc.persona, tc.group, global))
		})
	}
}

func TestDecideBoundaries(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		assert.False(t, decide(0, r.Float64), "rate 0 must never reciprocate")
	}
	for i := 0; i < 1000; i++ {
		assert.True(t, decide(100, r.Float64), "rate 100 must always reciprocate")
	}
}

func TestDecideMidRateBand(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	const trials = 10000
	hits := 0
	for i := 0; i < trials; i++ {
		if decide(50, r.Float64) {
			hits++
		}
	}
	ratio := float64(hits) / trials
	assert.InDelta(t, 0.50, ratio, 0.05, "rate 50 should land near half over many draws")
}

func ratePtr(n int) *int { return &n }
