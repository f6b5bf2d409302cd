package service

import (
	"context"
	"strings"

	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/validation"
)

// UserService provides profile and discovery business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileInput carries the editable profile fields. Empty strings
// leave the current value unchanged.
type UpdateProfileInput struct {
	UserID       uint
	Username     string
	Bio          string
	Avatar       string
	Location     string
	Availability string
}

// ListUsers returns a page of users.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// GetUserByID returns the user's own record.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns a user profile with skills. A private profile is
// visible only to its owner and to admins.
func (s *UserService) GetProfile(ctx context.Context, viewerID, targetID uint, viewerIsAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithSkills(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if viewerID != targetID && !viewerIsAdmin {
		if !user.IsPublic || user.IsBanned {
			return nil, models.NewNotFoundError("User", targetID)
		}
	}
	return user, nil
}

// SearchBySkill finds users offering a skill matching the query.
func (s *UserService) SearchBySkill(ctx context.Context, skillName string, limit, offset int) ([]models.User, error) {
	skillName = strings.TrimSpace(skillName)
	if skillName == "" {
		return nil, models.NewValidationError("Search term is required")
	}
	return s.userRepo.SearchBySkill(ctx, skillName, limit, offset)
}

// UpdateProfile applies the provided profile changes. The user row is read
// fresh from the database: the cached copy omits the password hash, and
// saving it back would wipe the column.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByIDFresh(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}
	if in.Location != "" {
		user.Location = in.Location
	}
	if in.Availability != "" {
		user.Availability = in.Availability
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetVisibility toggles whether the profile appears in search results.
func (s *UserService) SetVisibility(ctx context.Context, userID uint, isPublic bool) (*models.User, error) {
	user, err := s.userRepo.GetByIDFresh(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsPublic = isPublic
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAdmin grants or revokes admin rights.
func (s *UserService) SetAdmin(ctx context.Context, targetID uint, isAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByIDFresh(ctx, targetID)
	if err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
