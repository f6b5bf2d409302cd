package seed

import (
	"testing"
	"time"

	"skillswap/internal/models"
)

func TestBuildSkill_TimestampsAndCatalog(t *testing.T) {
	opts := Options{DryRun: true, MaxDays: 30}
	f := NewFactory(nil, opts)
	user := &models.User{ID: 1}

	sk := f.BuildSkill(user, models.SkillTypeOffered)
	if sk.Name == "" {
		t.Fatal("expected a catalog skill name")
	}
	names, ok := skillCatalog[sk.Category]
	if !ok {
		t.Fatalf("category %q not in catalog", sk.Category)
	}
	found := false
	for _, n := range names {
		if n == sk.Name {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("skill %q not listed under category %q", sk.Name, sk.Category)
	}
	if !models.ValidProficiency(sk.Proficiency) {
		t.Fatalf("invalid proficiency: %s", sk.Proficiency)
	}

	// timestamp should be within MaxDays
	if time.Since(sk.CreatedAt) > (time.Duration(opts.MaxDays)+1)*24*time.Hour {
		t.Fatalf("created_at too old: %v", sk.CreatedAt)
	}
}

func TestFactory_DryRunAssignsSyntheticIDs(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true, SkipBcrypt: true})

	user, err := f.CreateUser()
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected synthetic ID in dry-run mode")
	}
	if user.Password != "password123" {
		t.Fatal("expected plain password with SkipBcrypt")
	}

	skill, err := f.CreateSkill(user, models.SkillTypeWanted)
	if err != nil {
		t.Fatalf("CreateSkill: %v", err)
	}
	if skill.ID <= user.ID {
		t.Fatalf("expected monotonic synthetic IDs, user=%d skill=%d", user.ID, skill.ID)
	}
	if skill.Type != models.SkillTypeWanted {
		t.Fatalf("unexpected skill type: %s", skill.Type)
	}
}
