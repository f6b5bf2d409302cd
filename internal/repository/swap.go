package repository

import (
	"context"
	"errors"
	"time"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// SwapRepository defines persistence operations for swap requests.
type SwapRepository interface {
	Create(ctx context.Context, swap *models.SwapRequest) error
	GetByID(ctx context.Context, id uint) (*models.SwapRequest, error)
	ListByRequester(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error)
	ListByProvider(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error)
	ListByParticipant(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error)
	// TransitionStatus atomically moves swap id from one of allowedFrom to
	// target. It reports false when the row was not in an allowed state,
	// which means another request transitioned it first.
	TransitionStatus(ctx context.Context, id uint, allowedFrom []models.SwapStatus, target models.SwapStatus) (bool, error)
	// DeletePending removes swap id only while it is still pending. It
	// reports false when the row was already transitioned or deleted.
	DeletePending(ctx context.Context, id uint) (bool, error)
	// PendingExists reports whether requesterID already has a pending
	// request for wantedSkillID, regardless of the skill offered in return.
	PendingExists(ctx context.Context, requesterID, wantedSkillID uint) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.SwapStatus) (int64, error)
}

type swapRepository struct {
	db *gorm.DB
}

// NewSwapRepository returns a new SwapRepository implementation.
func NewSwapRepository(db *gorm.DB) SwapRepository {
	return &swapRepository{db: db}
}

func (r *swapRepository) Create(ctx context.Context, swap *models.SwapRequest) error {
	if err := r.db.WithContext(ctx).Create(swap).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *swapRepository) GetByID(ctx context.Context, id uint) (*models.SwapRequest, error) {
	var swap models.SwapRequest
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("OfferedSkill").
		Preload("WantedSkill").
		Preload("WantedSkill.User").
		First(&swap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Swap request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &swap, nil
}

func (r *swapRepository) ListByRequester(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error) {
	var swaps []models.SwapRequest
	if err := r.db.WithContext(ctx).
		Where("requester_id = ?", userID).
		Preload("OfferedSkill").
		Preload("WantedSkill").
		Preload("WantedSkill.User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&swaps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return swaps, nil
}

// ListByProvider returns swaps whose wanted skill belongs to userID, i.e.
// swaps the user received as provider.
func (r *swapRepository) ListByProvider(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error) {
	var swaps []models.SwapRequest
	if err := r.db.WithContext(ctx).
		Joins("JOIN skills ON skills.id = swap_requests.wanted_skill_id").
		Where("skills.user_id = ?", userID).
		Preload("Requester").
		Preload("OfferedSkill").
		Preload("WantedSkill").
		Order("swap_requests.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&swaps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return swaps, nil
}

// ListByParticipant returns swaps where userID is either the requester or
// the owner of the wanted skill.
func (r *swapRepository) ListByParticipant(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error) {
	var swaps []models.SwapRequest
	if err := r.db.WithContext(ctx).
		Joins("JOIN skills ON skills.id = swap_requests.wanted_skill_id").
		Where("swap_requests.requester_id = ? OR skills.user_id = ?", userID, userID).
		Preload("Requester").
		Preload("OfferedSkill").
		Preload("WantedSkill").
		Preload("WantedSkill.User").
		Order("swap_requests.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&swaps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return swaps, nil
}

func (r *swapRepository) TransitionStatus(ctx context.Context, id uint, allowedFrom []models.SwapStatus, target models.SwapStatus) (bool, error) {
	updates := map[string]interface{}{
		"status": target,
	}
	if target == models.SwapStatusCompleted {
		now := time.Now().UTC()
		updates["completed_at"] = &now
	}

	result := r.db.WithContext(ctx).
		Model(&models.SwapRequest{}).
		Where("id = ? AND status IN ?", id, allowedFrom).
		Updates(updates)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *swapRepository) DeletePending(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.SwapStatusPending).
		Delete(&models.SwapRequest{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *swapRepository) PendingExists(ctx context.Context, requesterID, wantedSkillID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SwapRequest{}).
		Where("requester_id = ? AND wanted_skill_id = ? AND status = ?",
			requesterID, wantedSkillID, models.SwapStatusPending).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *swapRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SwapRequest{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *swapRepository) CountByStatus(ctx context.Context, status models.SwapStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SwapRequest{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
