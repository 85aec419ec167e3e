package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

// SeedTestData resets the database and populates it with demo profiles,
// persona behavior config and a spread of likes/passes/blocks.
//
// Behavior:
//  1. Clears every engine-owned table.
//  2. Creates 16 human profiles and 6 bot personas with staggered
//     updated_at values so the feed has a stable recency order.
//  3. Persona configs cover the whole fallback chain: group-inherited,
//     own-rate overrides (0 and 100), and an inactive persona.
//  4. Generates likes (one guaranteed mutual pair), passes and a block.
func SeedTestData(database *gorm.DB) error {
	r := rand.New(rand.NewSource(42))

	for _, table := range []string{
		"impressions", "matches", "likes", "passes", "blocks",
		"persona_configs", "persona_groups", "global_persona_settings", "profiles",
	} {
		if err := database.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	if err := database.Create(&GlobalPersonaSettings{ID: 1, ReciprocationRate: 25}).Error; err != nil {
		return fmt.Errorf("failed to seed global persona settings: %w", err)
	}

	groups := []PersonaGroup{
		{Name: "starter_boost", ReciprocationRate: 60},
		{Name: "low_touch", ReciprocationRate: 10},
	}
	if err := database.Create(&groups).Error; err != nil {
		return fmt.Errorf("failed to seed persona groups: %w", err)
	}

	cities := []string{"London", "Manchester", "Bristol", "Leeds"}
	interests := [][]string{
		{"hiking", "coffee", "films"},
		{"yoga", "travel", "cooking"},
		{"climbing", "music"},
		{"reading", "running", "art"},
	}

	// humans
	now := time.Now()
	for i := 1; i <= 16; i++ {
		gender := "male"
		if i%2 == 0 {
			gender = "female"
		}
		profile := Profile{
			DisplayName: fmt.Sprintf("demo_user_%d", i),
			Age:         21 + r.Intn(20),
			Gender:      gender,
			City:        cities[i%len(cities)],
			Bio:         "Seeded demo profile",
			Photos:      []string{fmt.Sprintf("media/demo/%d/main.jpg", i)},
			Interests:   interests[i%len(interests)],
			LookingFor:  []string{"male", "female"},
			Verified:    i%3 == 0,
			HeightCM:    158 + r.Intn(35),
			Lat:         51.5 + r.Float64(),
			Lng:         -0.1 - r.Float64(),
			RelationshipType: []string{"long_term", "casual"}[i%2],
			Education:        []string{"bachelor", "master", "other"}[i%3],
			Smoking:          []string{"never", "socially"}[i%2],
			Alcohol:          []string{"never", "socially", "often"}[i%3],
			Kids:             []string{"none", "someday"}[i%2],
			Religion:         []string{"none", "christian", "muslim"}[i%3],
			Lifestyle:        []string{"active", "homebody"}[i%2],
		}
		if err := database.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
		// stagger recency so pagination order is interesting
		bump := now.Add(-time.Duration(i) * time.Hour)
		if err := database.Model(&Profile{}).Where("id = ?", profile.ID).
			Update("updated_at", bump).Error; err != nil {
			return err
		}
	}

	// bot personas
	botConfigs := []PersonaConfig{
		{Active: true, GroupID: &groups[0].ID},
		{Active: true, GroupID: &groups[1].ID},
		{Active: true, UseOwnRate: true, ReciprocationRate: intPtr(100)},
		{Active: true, UseOwnRate: true, ReciprocationRate: intPtr(0)},
		{Active: true},
		{Active: false},
	}
	for i, cfg := range botConfigs {
		gender := "female"
		if i%2 == 1 {
			gender = "male"
		}
		bot := Profile{
			DisplayName: fmt.Sprintf("persona_%d", i+1),
			Age:         23 + i,
			Gender:      gender,
			City:        cities[i%len(cities)],
			Bio:         "Seeded persona profile",
			Photos:      []string{fmt.Sprintf("media/personas/%d/main.jpg", i+1)},
			Interests:   interests[i%len(interests)],
			LookingFor:  []string{"male", "female"},
			IsBot:       true,
			HeightCM:    160 + 3*i,
			Lat:         51.5, Lng: -0.12,
			RelationshipType: "casual",
			Education:        "other",
			Smoking:          "never",
			Alcohol:          "socially",
			Kids:             "none",
			Religion:         "none",
			Lifestyle:        "active",
		}
		if err := database.Create(&bot).Error; err != nil {
			return fmt.Errorf("failed to seed bot profile: %w", err)
		}
		cfg.UserID = bot.ID
		if err := database.Create(&cfg).Error; err != nil {
			return fmt.Errorf("failed to seed persona config: %w", err)
		}
	}

	// likes: user 1 <-> user 2 mutual, user 3 -> user 1 one-way
	likes := []Like{
		{FromID: 1, ToID: 2},
		{FromID: 2, ToID: 1},
		{FromID: 3, ToID: 1},
	}
	if err := database.Create(&likes).Error; err != nil {
		return fmt.Errorf("failed to seed likes: %w", err)
	}

	passes := []Pass{
		{FromID: 1, ToID: 4},
		{FromID: 5, ToID: 1},
	}
	if err := database.Create(&passes).Error; err != nil {
		return fmt.Errorf("failed to seed passes: %w", err)
	}

	if err := database.Create(&Block{BlockerID: 6, BlockedID: 1}).Error; err != nil {
		return fmt.Errorf("failed to seed block: %w", err)
	}

	log.Println("Seeding completed: 16 humans, 6 personas, demo interactions")
	return nil
}

func intPtr(n int) *int { return &n }
