package engagement

import (
	"github.com/lumora-app/lumora/internal/db"
)

// ResolveRate determines the effective reciprocation rate (0-100) for a
// persona from the fallback chain.
//
// Precedence:
//   - Persona opts into its own rate -> persona override, falling back
//     to the global rate when no override is set.
//   - Persona inherits -> group rate when a group is assigned, else the
//     global rate.
func ResolveRate(persona *db.PersonaConfig, group *db.PersonaGroup, global *db.GlobalPersonaSettings) int {
	if persona.UseOwnRate {
		if persona.ReciprocationRate != nil {
			return *persona.ReciprocationRate
		}
		return global.ReciprocationRate
	}
	if group != nil {
		return group.ReciprocationRate
	}
	return global.ReciprocationRate
}

// decide draws a fresh uniform value in [0, 100) against the effective
// rate. Rate 0 never reciprocates and rate 100 always does; the guards
// make the boundaries exact regardless of draw precision.
func decide(rate int, draw func() float64) bool {
	if rate <= 0 {
		return false
	}
	if rate >= 100 {
		return true
	}
	return draw()*100 <= float64(rate)
}
