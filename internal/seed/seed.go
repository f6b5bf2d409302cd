// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers      int
	SkillsPerUser int
	SwapsPerUser  int
	ShouldClean   bool
	DryRun        bool
	SkipBcrypt    bool
	MaxDays       int
	BatchSize     int
}

// skillCatalog maps a category to real skill names so seeded profiles read
// like actual people instead of lorem ipsum.
var skillCatalog = map[string][]string{
	"music":     {"Guitar", "Piano", "Violin", "Drums", "Singing", "Music Production", "DJing"},
	"languages": {"Spanish", "French", "Japanese", "German", "Mandarin", "Italian", "Korean"},
	"tech":      {"Python", "JavaScript", "Go", "Web Design", "Data Analysis", "Linux Administration", "SQL"},
	"crafts":    {"Woodworking", "Knitting", "Pottery", "Leathercraft", "Origami"},
	"fitness":   {"Yoga", "Rock Climbing", "Swimming", "Boxing", "Running Coaching"},
	"cooking":   {"Baking", "Italian Cooking", "Sushi Making", "Barbecue", "Fermentation"},
	"arts":      {"Photography", "Watercolor Painting", "Drawing", "Calligraphy", "Video Editing"},
	"outdoors":  {"Gardening", "Foraging", "Kayaking", "Orienteering", "Birdwatching"},
}

// statusDistribution expresses how many of every ten seeded swaps land in
// each state. Values must sum to 10.
type statusDistribution struct {
	Pending   int
	Accepted  int
	Completed int
	Rejected  int
	Cancelled int
}

var defaultDistribution = statusDistribution{
	Pending:   3,
	Accepted:  2,
	Completed: 3,
	Rejected:  1,
	Cancelled: 1,
}

// computeStatusCounts splits total swaps across statuses per the distribution,
// assigning remainder to pending.
func computeStatusCounts(total int, d statusDistribution) (pending, accepted, completed, rejected, cancelled int) {
	accepted = total * d.Accepted / 10
	completed = total * d.Completed / 10
	rejected = total * d.Rejected / 10
	cancelled = total * d.Cancelled / 10
	pending = total - accepted - completed - rejected - cancelled
	return
}

// Seeder drives bulk data generation against a single database handle.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
	rng     *rand.Rand
}

// NewSeeder creates a Seeder with the given options.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 25
	}
	if opts.SkillsPerUser <= 0 {
		opts.SkillsPerUser = 4
	}
	if opts.SwapsPerUser <= 0 {
		opts.SwapsPerUser = 2
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{
		db:      db,
		opts:    opts,
		factory: NewFactory(db, opts),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	s := NewSeeder(db, opts)
	log.Printf("🌱 Starting database seeding with %d users...", s.opts.NumUsers)

	if s.opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := s.SeedCommunity(s.opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created with skills", len(users))

	swaps, err := s.SeedSwapActivity(users, s.opts.SwapsPerUser)
	if err != nil {
		return fmt.Errorf("failed to create swaps: %w", err)
	}
	log.Printf("✓ %d swap requests created", len(swaps))

	if err := s.RecomputeRatingAggregates(); err != nil {
		return fmt.Errorf("failed to recompute rating aggregates: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE ratings, swap_requests, skills, admin_messages, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

// SeedCommunity creates users, each holding a mixed set of offered and
// wanted skills drawn from the catalog.
func (s *Seeder) SeedCommunity(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)

	// Always include a few fixed accounts so developers can log in predictably.
	if count >= 3 {
		baseUsers := []string{"alice", "bob", "demo"}
		for _, name := range baseUsers {
			user, err := s.factory.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
				u.Bio = "One of the original members."
			})
			if err != nil {
				continue
			}
			users = append(users, *user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, *user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}

	for i := range users {
		if err := s.seedSkillsFor(&users[i]); err != nil {
			return nil, err
		}
	}

	return users, nil
}

func (s *Seeder) seedSkillsFor(user *models.User) error {
	skills := make([]*models.Skill, 0, s.opts.SkillsPerUser)
	seen := map[string]bool{}

	for len(skills) < s.opts.SkillsPerUser {
		skillType := models.SkillTypeOffered
		if len(skills)%2 == 1 {
			skillType = models.SkillTypeWanted
		}
		sk := s.factory.BuildSkill(user, skillType)
		key := sk.Name + "/" + string(sk.Type)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, sk)
	}

	return s.factory.CreateSkillsBatch(skills)
}

// SeedSwapActivity creates swap requests between seeded users, spreading
// statuses per the default distribution. Completed swaps receive ratings
// from one or both participants.
func (s *Seeder) SeedSwapActivity(users []models.User, perUser int) ([]models.SwapRequest, error) {
	if len(users) < 2 {
		return nil, nil
	}

	total := len(users) * perUser
	pending, accepted, completed, rejected, cancelled := computeStatusCounts(total, defaultDistribution)

	plan := make([]models.SwapStatus, 0, total)
	for i := 0; i < pending; i++ {
		plan = append(plan, models.SwapStatusPending)
	}
	for i := 0; i < accepted; i++ {
		plan = append(plan, models.SwapStatusAccepted)
	}
	for i := 0; i < completed; i++ {
		plan = append(plan, models.SwapStatusCompleted)
	}
	for i := 0; i < rejected; i++ {
		plan = append(plan, models.SwapStatusRejected)
	}
	for i := 0; i < cancelled; i++ {
		plan = append(plan, models.SwapStatusCancelled)
	}

	swaps := make([]models.SwapRequest, 0, total)
	for _, status := range plan {
		requester := users[s.rng.Intn(len(users))]
		provider := users[s.rng.Intn(len(users))]
		if provider.ID == requester.ID {
			continue
		}

		// Both sides of a swap reference skills their owners list as offered.
		offered, err := s.pickSkill(requester.ID, models.SkillTypeOffered)
		if err != nil {
			continue
		}
		wanted, err := s.pickSkill(provider.ID, models.SkillTypeOffered)
		if err != nil {
			continue
		}

		swap, err := s.factory.CreateSwap(&requester, offered, wanted, status)
		if err != nil {
			log.Printf("Failed to create swap: %v", err)
			continue
		}
		swaps = append(swaps, *swap)

		if status == models.SwapStatusCompleted {
			if err := s.seedRatingsFor(swap, requester.ID, provider.ID); err != nil {
				return nil, err
			}
		}
	}

	return swaps, nil
}

func (s *Seeder) pickSkill(userID uint, skillType models.SkillType) (*models.Skill, error) {
	var skill models.Skill
	err := s.db.Where("user_id = ? AND type = ?", userID, skillType).
		Order("RANDOM()").First(&skill).Error
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (s *Seeder) seedRatingsFor(swap *models.SwapRequest, requesterID, providerID uint) error {
	// Requester always rates; provider rates roughly two thirds of the time.
	score := 3 + s.rng.Intn(3)
	if _, err := s.factory.CreateRating(swap, requesterID, providerID, score); err != nil {
		return err
	}
	if s.rng.Intn(3) < 2 {
		score = 2 + s.rng.Intn(4)
		if _, err := s.factory.CreateRating(swap, providerID, requesterID, score); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeRatingAggregates rewrites avg_rating and rating_count on every
// user from the ratings table. Averages are rounded to one decimal.
func (s *Seeder) RecomputeRatingAggregates() error {
	if s.opts.DryRun {
		return nil
	}
	return s.db.Exec(`
		UPDATE users SET
			rating_count = (SELECT COUNT(*) FROM ratings WHERE ratings.rated_id = users.id),
			avg_rating = COALESCE((
				SELECT ROUND(AVG(CAST(score AS REAL)) * 10) / 10
				FROM ratings WHERE ratings.rated_id = users.id
			), 0)
	`).Error
}
