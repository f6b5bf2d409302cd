// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"skillswap/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:     gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:        gofakeit.Email(),
		Bio:          gofakeit.Sentence(10),
		Avatar:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Location:     fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		Availability: gofakeit.RandomString([]string{"weekends", "evenings", "weekdays", "flexible"}),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildSkill constructs a skill struct for the given user without persisting
// it. Name and category are drawn from the catalog; created_at is spread
// over the last MaxDays so seeded profiles do not all look brand new.
func (f *Factory) BuildSkill(user *models.User, skillType models.SkillType, overrides ...func(*models.Skill)) *models.Skill {
	categories := make([]string, 0, len(skillCatalog))
	for c := range skillCatalog {
		categories = append(categories, c)
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	category := categories[r.Intn(len(categories))]
	names := skillCatalog[category]

	proficiencies := []models.SkillProficiency{
		models.ProficiencyBeginner,
		models.ProficiencyIntermediate,
		models.ProficiencyAdvanced,
		models.ProficiencyExpert,
	}

	skill := &models.Skill{
		UserID:      user.ID,
		Name:        names[r.Intn(len(names))],
		Category:    category,
		Description: gofakeit.Sentence(12),
		Proficiency: proficiencies[r.Intn(len(proficiencies))],
		Type:        skillType,
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	skill.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(skill)
	}
	return skill
}

// CreateSkill builds and persists a skill for the given user.
func (f *Factory) CreateSkill(user *models.User, skillType models.SkillType, overrides ...func(*models.Skill)) (*models.Skill, error) {
	skill := f.BuildSkill(user, skillType, overrides...)

	if f.opts.DryRun {
		f.nextID++
		skill.ID = f.nextID
		log.Printf("[dry-run] CreateSkill: user=%d name=%q type=%s", skill.UserID, skill.Name, skill.Type)
		return skill, nil
	}

	if err := f.db.Create(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

// CreateSkillsBatch persists multiple skills in a single DB call when possible.
func (f *Factory) CreateSkillsBatch(skills []*models.Skill) error {
	if f.opts.DryRun {
		for _, sk := range skills {
			f.nextID++
			sk.ID = f.nextID
		}
		log.Printf("[dry-run] CreateSkillsBatch: %d skills (no DB write)", len(skills))
		return nil
	}
	return f.db.Create(&skills).Error
}

// CreateSwap persists a swap request between the requester's offered skill
// and the provider's wanted skill, in the given status. Completed swaps
// get a completed_at timestamp after creation.
func (f *Factory) CreateSwap(requester *models.User, offered, wanted *models.Skill, status models.SwapStatus, overrides ...func(*models.SwapRequest)) (*models.SwapRequest, error) {
	swap := &models.SwapRequest{
		RequesterID:    requester.ID,
		OfferedSkillID: offered.ID,
		WantedSkillID:  wanted.ID,
		Status:         status,
		Message:        gofakeit.Sentence(8),
	}
	if status == models.SwapStatusCompleted {
		now := time.Now()
		swap.CompletedAt = &now
	}

	for _, override := range overrides {
		override(swap)
	}

	if f.opts.DryRun {
		f.nextID++
		swap.ID = f.nextID
		log.Printf("[dry-run] CreateSwap: requester=%d status=%s", swap.RequesterID, swap.Status)
		return swap, nil
	}

	if err := f.db.Create(swap).Error; err != nil {
		return nil, err
	}
	swap.WantedSkill = *wanted
	return swap, nil
}

// CreateRating persists a rating from rater to rated on the given swap.
func (f *Factory) CreateRating(swap *models.SwapRequest, raterID, ratedID uint, score int, overrides ...func(*models.Rating)) (*models.Rating, error) {
	rating := &models.Rating{
		SwapID:   swap.ID,
		RaterID:  raterID,
		RatedID:  ratedID,
		Score:    score,
		Feedback: gofakeit.Sentence(10),
	}

	for _, override := range overrides {
		override(rating)
	}

	if f.opts.DryRun {
		f.nextID++
		rating.ID = f.nextID
		return rating, nil
	}

	if err := f.db.Create(rating).Error; err != nil {
		return nil, err
	}
	return rating, nil
}
