package service

import (
	"context"
	"strings"

	"skillswap/internal/models"
	"skillswap/internal/repository"
)

// PlatformStats aggregates counts for the admin dashboard.
type PlatformStats struct {
	Users          int64 `json:"users"`
	BannedUsers    int64 `json:"banned_users"`
	Skills         int64 `json:"skills"`
	Swaps          int64 `json:"swaps"`
	PendingSwaps   int64 `json:"pending_swaps"`
	AcceptedSwaps  int64 `json:"accepted_swaps"`
	CompletedSwaps int64 `json:"completed_swaps"`
	Ratings        int64 `json:"ratings"`
}

// AdminService provides moderation and platform administration logic.
type AdminService struct {
	userRepo    repository.UserRepository
	skillRepo   repository.SkillRepository
	swapRepo    repository.SwapRepository
	ratingRepo  repository.RatingRepository
	messageRepo repository.AdminMessageRepository
}

// NewAdminService returns a new AdminService.
func NewAdminService(
	userRepo repository.UserRepository,
	skillRepo repository.SkillRepository,
	swapRepo repository.SwapRepository,
	ratingRepo repository.RatingRepository,
	messageRepo repository.AdminMessageRepository,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		skillRepo:   skillRepo,
		swapRepo:    swapRepo,
		ratingRepo:  ratingRepo,
		messageRepo: messageRepo,
	}
}

// BanUser bans the target user. Admins cannot be banned.
func (s *AdminService) BanUser(ctx context.Context, targetID uint, reason string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin {
		return nil, models.NewValidationError("Admins cannot be banned")
	}
	if user.IsBanned {
		return nil, models.NewValidationError("User is already banned")
	}

	if err := s.userRepo.SetBanned(ctx, targetID, true, strings.TrimSpace(reason)); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}

// UnbanUser lifts a ban.
func (s *AdminService) UnbanUser(ctx context.Context, targetID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !user.IsBanned {
		return nil, models.NewValidationError("User is not banned")
	}

	if err := s.userRepo.SetBanned(ctx, targetID, false, ""); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}

// BroadcastInput carries the fields for a platform-wide announcement.
type BroadcastInput struct {
	Title    string
	Body     string
	Category string
}

// Broadcast stores a platform-wide announcement. Delivery to connected
// clients is the caller's concern.
func (s *AdminService) Broadcast(ctx context.Context, in BroadcastInput) (*models.AdminMessage, error) {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if body == "" {
		return nil, models.NewValidationError("Body is required")
	}

	message := &models.AdminMessage{
		Title:    title,
		Body:     body,
		Category: in.Category,
	}
	if message.Category == "" {
		message.Category = "general"
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// ListMessages returns past announcements, newest first.
func (s *AdminService) ListMessages(ctx context.Context, limit, offset int) ([]models.AdminMessage, error) {
	return s.messageRepo.List(ctx, limit, offset)
}

// DeleteMessage removes an announcement.
func (s *AdminService) DeleteMessage(ctx context.Context, id uint) error {
	return s.messageRepo.Delete(ctx, id)
}

// ListUsers returns a page of users for the admin console.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// Stats returns platform-wide counters.
func (s *AdminService) Stats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}
	var err error

	if stats.Users, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.BannedUsers, err = s.userRepo.CountBanned(ctx); err != nil {
		return nil, err
	}
	if stats.Skills, err = s.skillRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Swaps, err = s.swapRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingSwaps, err = s.swapRepo.CountByStatus(ctx, models.SwapStatusPending); err != nil {
		return nil, err
	}
	if stats.AcceptedSwaps, err = s.swapRepo.CountByStatus(ctx, models.SwapStatusAccepted); err != nil {
		return nil, err
	}
	if stats.CompletedSwaps, err = s.swapRepo.CountByStatus(ctx, models.SwapStatusCompleted); err != nil {
		return nil, err
	}
	if stats.Ratings, err = s.ratingRepo.Count(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
