package seed

import (
	"fmt"
	"os"
	"strings"

	"skillswap/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// BuiltInMessage is a permanent platform announcement.
type BuiltInMessage struct {
	Title    string
	Body     string
	Category string
}

// BuiltInMessages defines announcements every fresh install starts with.
var BuiltInMessages = []BuiltInMessage{
	{
		Title:    "Welcome to SkillSwap",
		Body:     "Add the skills you can teach and the ones you want to learn, then send a swap request to get started.",
		Category: "general",
	},
	{
		Title:    "Community guidelines",
		Body:     "Be respectful, show up to sessions you agree to, and rate your partner honestly after a completed swap.",
		Category: "policy",
	},
	{
		Title:    "Rate your swaps",
		Body:     "Ratings help other members find reliable partners. You can update your rating for a swap at any time.",
		Category: "tips",
	},
}

// Messages seeds the permanent built-in announcements. Safe to run on every
// startup; existing messages are matched by title and left alone.
func Messages(db *gorm.DB) error {
	for _, item := range BuiltInMessages {
		msg := models.AdminMessage{
			Title:    item.Title,
			Body:     item.Body,
			Category: item.Category,
		}
		err := db.Where(models.AdminMessage{Title: item.Title}).
			Attrs(models.AdminMessage{Body: item.Body, Category: item.Category}).
			FirstOrCreate(&msg).Error
		if err != nil {
			return fmt.Errorf("seed built-in message %q: %w", item.Title, err)
		}
	}
	return nil
}

// Fixture is a declarative set of users and skills loaded from YAML.
// It exists so demo environments can be reproduced exactly, unlike the
// randomized Seed path.
type Fixture struct {
	Users []FixtureUser `yaml:"users"`
}

// FixtureUser declares one user and their skills.
type FixtureUser struct {
	Username string         `yaml:"username"`
	Email    string         `yaml:"email"`
	Password string         `yaml:"password"`
	Bio      string         `yaml:"bio"`
	Location string         `yaml:"location"`
	Admin    bool           `yaml:"admin"`
	Skills   []FixtureSkill `yaml:"skills"`
}

// FixtureSkill declares one skill entry.
type FixtureSkill struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Type        string `yaml:"type"`
	Proficiency string `yaml:"proficiency"`
}

// LoadFixtureFile reads and parses a YAML fixture from disk.
func LoadFixtureFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied fixture path
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &fx, nil
}

// ApplyFixture upserts fixture users and their skills. Users are matched by
// email, skills by (owner, name, type), so re-applying a fixture is safe.
func ApplyFixture(db *gorm.DB, fx *Fixture) error {
	for _, fu := range fx.Users {
		if fu.Username == "" || fu.Email == "" {
			return fmt.Errorf("fixture user missing username or email")
		}
		password := fu.Password
		if password == "" {
			password = "password123"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash fixture password for %s: %w", fu.Username, err)
		}

		user := models.User{
			Username: fu.Username,
			Email:    strings.ToLower(fu.Email),
			Password: string(hashed),
			Bio:      fu.Bio,
			Location: fu.Location,
			IsAdmin:  fu.Admin,
		}
		err = db.Where(models.User{Email: user.Email}).
			Assign(map[string]any{"is_admin": fu.Admin}).
			FirstOrCreate(&user).Error
		if err != nil {
			return fmt.Errorf("seed fixture user %s: %w", fu.Username, err)
		}

		for _, fs := range fu.Skills {
			skillType := models.SkillType(fs.Type)
			if !models.ValidSkillType(skillType) {
				return fmt.Errorf("fixture skill %q for %s has invalid type %q", fs.Name, fu.Username, fs.Type)
			}
			proficiency := models.SkillProficiency(fs.Proficiency)
			if proficiency == "" {
				proficiency = models.ProficiencyBeginner
			}
			if !models.ValidProficiency(proficiency) {
				return fmt.Errorf("fixture skill %q for %s has invalid proficiency %q", fs.Name, fu.Username, fs.Proficiency)
			}

			skill := models.Skill{
				UserID: user.ID,
				Name:   fs.Name,
				Type:   skillType,
			}
			err = db.Where(models.Skill{UserID: user.ID, Name: fs.Name, Type: skillType}).
				Attrs(models.Skill{Category: fs.Category, Proficiency: proficiency}).
				FirstOrCreate(&skill).Error
			if err != nil {
				return fmt.Errorf("seed fixture skill %q for %s: %w", fs.Name, fu.Username, err)
			}
		}
	}
	return nil
}
