package repository

import (
	"context"
	"errors"

	"skillswap/internal/cache"
	"skillswap/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRepository defines persistence operations for ratings.
type RatingRepository interface {
	// Upsert inserts the rating, or replaces score and feedback when the
	// (swap, rater) pair already has one.
	Upsert(ctx context.Context, rating *models.Rating) error
	GetBySwapAndRater(ctx context.Context, swapID, raterID uint) (*models.Rating, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Rating, error)
	// RecomputeUserAggregate recalculates avg_rating (rounded to one
	// decimal) and rating_count for the rated user from the ratings table.
	RecomputeUserAggregate(ctx context.Context, userID uint) error
	Count(ctx context.Context) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository returns a new RatingRepository implementation.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "swap_id"}, {Name: "rater_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "feedback", "updated_at"}),
		}).
		Create(rating).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUserRatings(ctx, rating.RatedID)
	return nil
}

func (r *ratingRepository) GetBySwapAndRater(ctx context.Context, swapID, raterID uint) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).
		Where("swap_id = ? AND rater_id = ?", swapID, raterID).
		First(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &rating, nil
}

func (r *ratingRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.WithContext(ctx).
		Where("rated_id = ?", userID).
		Preload("Rater").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ratings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

func (r *ratingRepository) RecomputeUserAggregate(ctx context.Context, userID uint) error {
	// Single statement so the aggregate never drifts from the rows it
	// summarizes. COALESCE covers the no-ratings case.
	if err := r.db.WithContext(ctx).Exec(`
		UPDATE users SET
			avg_rating = COALESCE((SELECT ROUND(AVG(score), 1) FROM ratings WHERE rated_id = ?), 0),
			rating_count = (SELECT COUNT(*) FROM ratings WHERE rated_id = ?)
		WHERE id = ?`, userID, userID, userID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUserRatings(ctx, userID)
	return nil
}

func (r *ratingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
