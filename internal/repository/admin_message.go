package repository

import (
	"context"
	"errors"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// AdminMessageRepository defines persistence operations for admin broadcasts.
type AdminMessageRepository interface {
	Create(ctx context.Context, message *models.AdminMessage) error
	GetByID(ctx context.Context, id uint) (*models.AdminMessage, error)
	List(ctx context.Context, limit, offset int) ([]models.AdminMessage, error)
	Delete(ctx context.Context, id uint) error
}

type adminMessageRepository struct {
	db *gorm.DB
}

// NewAdminMessageRepository returns a new AdminMessageRepository implementation.
func NewAdminMessageRepository(db *gorm.DB) AdminMessageRepository {
	return &adminMessageRepository{db: db}
}

func (r *adminMessageRepository) Create(ctx context.Context, message *models.AdminMessage) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *adminMessageRepository) GetByID(ctx context.Context, id uint) (*models.AdminMessage, error) {
	var message models.AdminMessage
	if err := r.db.WithContext(ctx).First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Admin message", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &message, nil
}

func (r *adminMessageRepository) List(ctx context.Context, limit, offset int) ([]models.AdminMessage, error) {
	var messages []models.AdminMessage
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *adminMessageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.AdminMessage{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Admin message", id)
	}
	return nil
}
