package service

import (
	"context"
	"strconv"

	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
	"skillswap/internal/validation"
)

// RatingService provides rating submission and aggregation business logic.
type RatingService struct {
	ratingRepo repository.RatingRepository
	swapRepo   repository.SwapRepository
	userRepo   repository.UserRepository
}

// NewRatingService returns a new RatingService.
func NewRatingService(ratingRepo repository.RatingRepository, swapRepo repository.SwapRepository, userRepo repository.UserRepository) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		swapRepo:   swapRepo,
		userRepo:   userRepo,
	}
}

// RateSwapInput carries the fields for a rating submission.
type RateSwapInput struct {
	RaterID  uint
	SwapID   uint
	Score    int
	Feedback string
}

// RateSwap records the rater's score for the other participant of a
// completed swap. Submitting again for the same swap replaces the previous
// score, and the rated user's aggregate is recomputed either way.
func (s *RatingService) RateSwap(ctx context.Context, in RateSwapInput) (*models.Rating, error) {
	if err := validation.ValidateRatingScore(in.Score); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateRatingFeedback(in.Feedback); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	swap, err := s.swapRepo.GetByID(ctx, in.SwapID)
	if err != nil {
		return nil, err
	}

	var ratedID uint
	switch in.RaterID {
	case swap.RequesterID:
		ratedID = swap.ProviderID()
	case swap.ProviderID():
		ratedID = swap.RequesterID
	default:
		return nil, models.NewUnauthorizedError("You are not a participant of this swap")
	}

	if swap.Status != models.SwapStatusCompleted {
		return nil, models.NewInvalidStateTransitionError("Only completed swaps can be rated")
	}

	rating := &models.Rating{
		SwapID:   in.SwapID,
		RaterID:  in.RaterID,
		RatedID:  ratedID,
		Score:    in.Score,
		Feedback: in.Feedback,
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, err
	}
	if err := s.ratingRepo.RecomputeUserAggregate(ctx, ratedID); err != nil {
		return nil, err
	}

	observability.RecordRating(strconv.Itoa(in.Score))
	return s.ratingRepo.GetBySwapAndRater(ctx, in.SwapID, in.RaterID)
}

// UserRatings bundles a page of received ratings with the user's stored
// aggregate, newest first.
type UserRatings struct {
	Ratings []models.Rating `json:"ratings"`
	Average float64         `json:"average"`
	Count   int             `json:"count"`
}

// ListUserRatings returns ratings received by the user plus the aggregate
// average and count carried on the user row.
func (s *RatingService) ListUserRatings(ctx context.Context, userID uint, limit, offset int) (*UserRatings, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingRepo.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	return &UserRatings{
		Ratings: ratings,
		Average: user.AvgRating,
		Count:   user.RatingCount,
	}, nil
}
