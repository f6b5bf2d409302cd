package validation

import (
	"strings"
	"testing"

	"skillswap/internal/models"
)

func TestValidateSkillName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{name: "valid", value: "Guitar", ok: true},
		{name: "valid with spaces", value: "Conversational Spanish", ok: true},
		{name: "blank", value: "", ok: false},
		{name: "whitespace only", value: "   ", ok: false},
		{name: "maximum length", value: strings.Repeat("a", 100), ok: true},
		{name: "too long", value: strings.Repeat("a", 101), ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSkillName(tc.value)
			if tc.ok && err != nil {
				t.Fatalf("expected valid name, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid name, got nil error")
			}
		})
	}
}

func TestValidateSkillType(t *testing.T) {
	t.Parallel()

	if err := ValidateSkillType(models.SkillTypeOffered); err != nil {
		t.Fatalf("offered should be valid: %v", err)
	}
	if err := ValidateSkillType(models.SkillTypeWanted); err != nil {
		t.Fatalf("wanted should be valid: %v", err)
	}
	if err := ValidateSkillType("teachable"); err == nil {
		t.Fatal("unknown type should be rejected")
	}
	if err := ValidateSkillType(""); err == nil {
		t.Fatal("empty type should be rejected")
	}
}

func TestValidateProficiency(t *testing.T) {
	t.Parallel()

	for _, p := range []models.SkillProficiency{
		models.ProficiencyBeginner,
		models.ProficiencyIntermediate,
		models.ProficiencyAdvanced,
		models.ProficiencyExpert,
		"",
	} {
		if err := ValidateProficiency(p); err != nil {
			t.Fatalf("proficiency %q should be valid: %v", p, err)
		}
	}

	if err := ValidateProficiency("grandmaster"); err == nil {
		t.Fatal("unknown proficiency should be rejected")
	}
}

func TestValidateRatingScore(t *testing.T) {
	t.Parallel()

	for score := 1; score <= 5; score++ {
		if err := ValidateRatingScore(score); err != nil {
			t.Fatalf("score %d should be valid: %v", score, err)
		}
	}
	for _, score := range []int{0, -1, 6, 100} {
		if err := ValidateRatingScore(score); err == nil {
			t.Fatalf("score %d should be rejected", score)
		}
	}
}

func TestValidateSwapMessage(t *testing.T) {
	t.Parallel()

	if err := ValidateSwapMessage(strings.Repeat("m", 500)); err != nil {
		t.Fatalf("message at limit should be valid: %v", err)
	}
	if err := ValidateSwapMessage(strings.Repeat("m", 501)); err == nil {
		t.Fatal("over-limit message should be rejected")
	}
}
