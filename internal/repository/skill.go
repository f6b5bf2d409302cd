package repository

import (
	"context"
	"errors"

	"skillswap/internal/cache"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

// PopularSkill is a skill name with how many users currently offer it.
type PopularSkill struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// SkillRepository defines persistence operations for skills.
type SkillRepository interface {
	Create(ctx context.Context, skill *models.Skill) error
	GetByID(ctx context.Context, id uint) (*models.Skill, error)
	GetByUserID(ctx context.Context, userID uint) ([]models.Skill, error)
	GetByUserIDAndType(ctx context.Context, userID uint, skillType models.SkillType) ([]models.Skill, error)
	Update(ctx context.Context, skill *models.Skill) error
	Delete(ctx context.Context, id uint) error
	Popular(ctx context.Context, limit int) ([]PopularSkill, error)
	Count(ctx context.Context) (int64, error)
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository returns a new SkillRepository implementation.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(ctx context.Context, skill *models.Skill) error {
	if err := r.db.WithContext(ctx).Create(skill).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateResourceError("You already listed this skill")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, skill.UserID)
	cache.InvalidatePopularSkills(ctx)
	return nil
}

func (r *skillRepository) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Skill", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &skill, nil
}

func (r *skillRepository) GetByUserID(ctx context.Context, userID uint) ([]models.Skill, error) {
	var skills []models.Skill
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("type ASC, name ASC").
		Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}

func (r *skillRepository) GetByUserIDAndType(ctx context.Context, userID uint, skillType models.SkillType) ([]models.Skill, error) {
	var skills []models.Skill
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, skillType).
		Order("name ASC").
		Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}

func (r *skillRepository) Update(ctx context.Context, skill *models.Skill) error {
	if err := r.db.WithContext(ctx).Save(skill).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateResourceError("You already listed this skill")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, skill.UserID)
	cache.InvalidatePopularSkills(ctx)
	return nil
}

func (r *skillRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Skill{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Skill", id)
	}
	cache.InvalidatePopularSkills(ctx)
	return nil
}

// popularCacheSize is how many entries the shared popular-skills cache
// holds. Callers asking for fewer get a slice of the same cached ranking,
// so the first request's limit never pins the result for later callers.
const popularCacheSize = 50

// Popular returns the most offered skill names, cached briefly.
func (r *skillRepository) Popular(ctx context.Context, limit int) ([]PopularSkill, error) {
	if limit > popularCacheSize {
		return r.popularFromDB(ctx, limit)
	}

	var ranking []PopularSkill
	err := cache.Aside(ctx, cache.PopularSkillsKey, &ranking, cache.PopularSkillsTTL, func() error {
		full, err := r.popularFromDB(ctx, popularCacheSize)
		if err != nil {
			return err
		}
		ranking = full
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking, nil
}

func (r *skillRepository) popularFromDB(ctx context.Context, limit int) ([]PopularSkill, error) {
	var popular []PopularSkill
	if err := r.db.WithContext(ctx).
		Model(&models.Skill{}).
		Select("name, COUNT(*) as count").
		Where("type = ?", models.SkillTypeOffered).
		Group("name").
		Order("count DESC, name ASC").
		Limit(limit).
		Scan(&popular).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return popular, nil
}

func (r *skillRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Skill{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
