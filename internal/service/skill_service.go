package service

import (
	"context"
	"strings"

	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/validation"
)

// SkillService provides skill listing business logic.
type SkillService struct {
	skillRepo repository.SkillRepository
	userRepo  repository.UserRepository
}

// NewSkillService returns a new SkillService.
func NewSkillService(skillRepo repository.SkillRepository, userRepo repository.UserRepository) *SkillService {
	return &SkillService{
		skillRepo: skillRepo,
		userRepo:  userRepo,
	}
}

// SkillInput carries the fields for creating or updating a skill.
type SkillInput struct {
	Name        string
	Category    string
	Description string
	Proficiency models.SkillProficiency
	Type        models.SkillType
}

func (in *SkillInput) validate() error {
	if err := validation.ValidateSkillName(in.Name); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateSkillType(in.Type); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateProficiency(in.Proficiency); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateSkillDescription(in.Description); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

// AddSkill creates a skill entry owned by userID.
func (s *SkillService) AddSkill(ctx context.Context, userID uint, in SkillInput) (*models.Skill, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	skill := &models.Skill{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		Description: in.Description,
		Proficiency: in.Proficiency,
		Type:        in.Type,
	}
	if skill.Proficiency == "" {
		skill.Proficiency = models.ProficiencyBeginner
	}

	if err := s.skillRepo.Create(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// UpdateSkill modifies a skill the user owns. A skill owned by someone else
// is reported as not found.
func (s *SkillService) UpdateSkill(ctx context.Context, userID, skillID uint, in SkillInput) (*models.Skill, error) {
	skill, err := s.skillRepo.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if skill.UserID != userID {
		return nil, models.NewNotFoundError("Skill", skillID)
	}

	if err := in.validate(); err != nil {
		return nil, err
	}

	skill.Name = strings.TrimSpace(in.Name)
	skill.Category = in.Category
	skill.Description = in.Description
	skill.Type = in.Type
	if in.Proficiency != "" {
		skill.Proficiency = in.Proficiency
	}

	if err := s.skillRepo.Update(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// DeleteSkill removes a skill the user owns.
func (s *SkillService) DeleteSkill(ctx context.Context, userID, skillID uint) error {
	skill, err := s.skillRepo.GetByID(ctx, skillID)
	if err != nil {
		return err
	}
	if skill.UserID != userID {
		return models.NewNotFoundError("Skill", skillID)
	}
	return s.skillRepo.Delete(ctx, skillID)
}

// ListUserSkills returns the skills owned by userID, optionally filtered by type.
func (s *SkillService) ListUserSkills(ctx context.Context, userID uint, skillType models.SkillType) ([]models.Skill, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if skillType == "" {
		return s.skillRepo.GetByUserID(ctx, userID)
	}
	if err := validation.ValidateSkillType(skillType); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.skillRepo.GetByUserIDAndType(ctx, userID, skillType)
}

// PopularSkills returns the most commonly offered skill names.
func (s *SkillService) PopularSkills(ctx context.Context, limit int) ([]repository.PopularSkill, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.skillRepo.Popular(ctx, limit)
}
