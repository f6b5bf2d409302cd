package validation

import (
	"fmt"
	"strings"

	"skillswap/internal/models"
)

const (
	maxSkillNameLength        = 100
	maxSkillDescriptionLength = 1000
	maxSwapMessageLength      = 500
	maxRatingFeedbackLength   = 1000
)

// ValidateSkillName checks that a skill name is non-blank and within limits.
func ValidateSkillName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("skill name is required")
	}
	if len(trimmed) > maxSkillNameLength {
		return fmt.Errorf("skill name must not exceed %d characters", maxSkillNameLength)
	}
	return nil
}

// ValidateSkillType checks that t is either offered or wanted.
func ValidateSkillType(t models.SkillType) error {
	if !models.ValidSkillType(t) {
		return fmt.Errorf("skill type must be %q or %q", models.SkillTypeOffered, models.SkillTypeWanted)
	}
	return nil
}

// ValidateProficiency checks that p is one of the known proficiency tiers.
// An empty proficiency is allowed and defaults downstream.
func ValidateProficiency(p models.SkillProficiency) error {
	if p == "" {
		return nil
	}
	if !models.ValidProficiency(p) {
		return fmt.Errorf("proficiency must be one of beginner, intermediate, advanced, expert")
	}
	return nil
}

// ValidateSkillDescription bounds the free-text description.
func ValidateSkillDescription(description string) error {
	if len(description) > maxSkillDescriptionLength {
		return fmt.Errorf("description must not exceed %d characters", maxSkillDescriptionLength)
	}
	return nil
}

// ValidateSwapMessage bounds the optional message attached to a swap request.
func ValidateSwapMessage(message string) error {
	if len(message) > maxSwapMessageLength {
		return fmt.Errorf("message must not exceed %d characters", maxSwapMessageLength)
	}
	return nil
}

// ValidateRatingScore checks the 1-5 score range.
func ValidateRatingScore(score int) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("score must be between 1 and 5")
	}
	return nil
}

// ValidateRatingFeedback bounds the optional feedback text.
func ValidateRatingFeedback(feedback string) error {
	if len(feedback) > maxRatingFeedbackLength {
		return fmt.Errorf("feedback must not exceed %d characters", maxRatingFeedbackLength)
	}
	return nil
}
