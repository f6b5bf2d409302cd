package service

import (
	"context"
	"fmt"

	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
	"skillswap/internal/validation"
)

// SwapService provides swap request lifecycle business logic.
type SwapService struct {
	swapRepo  repository.SwapRepository
	skillRepo repository.SkillRepository
	userRepo  repository.UserRepository
}

// NewSwapService returns a new SwapService.
func NewSwapService(swapRepo repository.SwapRepository, skillRepo repository.SkillRepository, userRepo repository.UserRepository) *SwapService {
	return &SwapService{
		swapRepo:  swapRepo,
		skillRepo: skillRepo,
		userRepo:  userRepo,
	}
}

// CreateSwapInput carries the fields for a new swap request.
type CreateSwapInput struct {
	RequesterID    uint
	OfferedSkillID uint
	WantedSkillID  uint
	Message        string
}

// CreateSwapRequest validates and creates a pending swap request. The
// offered skill must be one of the requester's own offered skills; the
// wanted skill must be offered by some other user.
func (s *SwapService) CreateSwapRequest(ctx context.Context, in CreateSwapInput) (*models.SwapRequest, error) {
	if err := validation.ValidateSwapMessage(in.Message); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	offered, err := s.skillRepo.GetByID(ctx, in.OfferedSkillID)
	if err != nil {
		return nil, err
	}
	// Treat another user's skill as nonexistent rather than revealing it.
	if offered.UserID != in.RequesterID {
		return nil, models.NewNotFoundError("Skill", in.OfferedSkillID)
	}
	if offered.Type != models.SkillTypeOffered {
		return nil, models.NewValidationError("The offered skill must be one you listed as offered")
	}

	wanted, err := s.skillRepo.GetByID(ctx, in.WantedSkillID)
	if err != nil {
		return nil, err
	}
	if wanted.UserID == in.RequesterID {
		return nil, models.NewValidationError("Cannot request a swap with yourself")
	}
	if wanted.Type != models.SkillTypeOffered {
		return nil, models.NewValidationError("The wanted skill is not offered by its owner")
	}

	provider, err := s.userRepo.GetByID(ctx, wanted.UserID)
	if err != nil {
		return nil, err
	}
	if provider.IsBanned {
		return nil, models.NewNotFoundError("Skill", in.WantedSkillID)
	}

	exists, err := s.swapRepo.PendingExists(ctx, in.RequesterID, in.WantedSkillID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewDuplicateResourceError("You already have a pending request for this skill")
	}

	swap := &models.SwapRequest{
		RequesterID:    in.RequesterID,
		OfferedSkillID: in.OfferedSkillID,
		WantedSkillID:  in.WantedSkillID,
		Status:         models.SwapStatusPending,
		Message:        in.Message,
	}
	if err := s.swapRepo.Create(ctx, swap); err != nil {
		return nil, err
	}

	observability.RecordSwapTransition("", string(models.SwapStatusPending))
	return s.swapRepo.GetByID(ctx, swap.ID)
}

// GetSwap returns the swap if userID participates in it.
func (s *SwapService) GetSwap(ctx context.Context, userID, swapID uint) (*models.SwapRequest, error) {
	swap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if swap.RequesterID != userID && swap.ProviderID() != userID {
		return nil, models.NewUnauthorizedError("You are not a participant of this swap")
	}
	return swap, nil
}

// ListOutgoing returns swaps the user created.
func (s *SwapService) ListOutgoing(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error) {
	return s.swapRepo.ListByRequester(ctx, userID, limit, offset)
}

// ListIncoming returns swaps targeting one of the user's skills.
func (s *SwapService) ListIncoming(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error) {
	return s.swapRepo.ListByProvider(ctx, userID, limit, offset)
}

// ListMine returns swaps in either direction for the user.
func (s *SwapService) ListMine(ctx context.Context, userID uint, limit, offset int) ([]models.SwapRequest, error) {
	return s.swapRepo.ListByParticipant(ctx, userID, limit, offset)
}

// Accept moves a pending swap to accepted. Provider only.
func (s *SwapService) Accept(ctx context.Context, userID, swapID uint) (*models.SwapRequest, error) {
	return s.transition(ctx, userID, swapID, models.SwapStatusAccepted)
}

// Reject moves a pending swap to rejected. Provider only.
func (s *SwapService) Reject(ctx context.Context, userID, swapID uint) (*models.SwapRequest, error) {
	return s.transition(ctx, userID, swapID, models.SwapStatusRejected)
}

// Cancel moves a pending swap to cancelled. Requester only.
func (s *SwapService) Cancel(ctx context.Context, userID, swapID uint) (*models.SwapRequest, error) {
	return s.transition(ctx, userID, swapID, models.SwapStatusCancelled)
}

// Complete moves an accepted swap to completed. Either participant.
func (s *SwapService) Complete(ctx context.Context, userID, swapID uint) (*models.SwapRequest, error) {
	return s.transition(ctx, userID, swapID, models.SwapStatusCompleted)
}

// Delete removes a swap that is still pending. Either participant may
// delete; anything past pending must go through the state machine instead.
func (s *SwapService) Delete(ctx context.Context, userID, swapID uint) error {
	swap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return err
	}
	if swap.RequesterID != userID && swap.ProviderID() != userID {
		return models.NewUnauthorizedError("You are not a participant of this swap")
	}
	if swap.Status != models.SwapStatusPending {
		return models.NewInvalidStateTransitionError("Only pending swaps can be deleted")
	}

	ok, err := s.swapRepo.DeletePending(ctx, swapID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewInvalidStateTransitionError("Swap is no longer pending and cannot be deleted")
	}
	return nil
}

// allowedFrom maps each target status to the statuses it may leave.
func allowedFrom(target models.SwapStatus) []models.SwapStatus {
	if target == models.SwapStatusCompleted {
		return []models.SwapStatus{models.SwapStatusAccepted}
	}
	return []models.SwapStatus{models.SwapStatusPending}
}

func (s *SwapService) transition(ctx context.Context, userID, swapID uint, target models.SwapStatus) (*models.SwapRequest, error) {
	swap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}

	isRequester := swap.RequesterID == userID
	isProvider := swap.ProviderID() == userID
	if !isRequester && !isProvider {
		return nil, models.NewUnauthorizedError("You are not a participant of this swap")
	}

	// Role checks come before state checks so a participant using the
	// wrong verb learns which one is theirs.
	switch target {
	case models.SwapStatusAccepted, models.SwapStatusRejected:
		if !isProvider {
			return nil, models.NewUnauthorizedError("Only the skill owner can accept or reject; you can cancel your own request instead")
		}
	case models.SwapStatusCancelled:
		if !isRequester {
			return nil, models.NewWrongActionError("Only the requester can cancel; you can reject the request instead")
		}
	}

	from := allowedFrom(target)
	if err := checkTransition(swap.Status, from, target); err != nil {
		return nil, err
	}

	ok, err := s.swapRepo.TransitionStatus(ctx, swapID, from, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Another request won the race between our read and the update.
		fresh, err := s.swapRepo.GetByID(ctx, swapID)
		if err != nil {
			return nil, err
		}
		return nil, models.NewInvalidStateTransitionError(
			fmt.Sprintf("Swap is %s and cannot become %s", fresh.Status, target))
	}

	observability.RecordSwapTransition(string(swap.Status), string(target))
	return s.swapRepo.GetByID(ctx, swapID)
}

func checkTransition(current models.SwapStatus, from []models.SwapStatus, target models.SwapStatus) error {
	for _, f := range from {
		if current == f {
			return nil
		}
	}
	if current.Terminal() {
		return models.NewInvalidStateTransitionError(
			fmt.Sprintf("Swap is %s and can no longer change", current))
	}
	return models.NewInvalidStateTransitionError(
		fmt.Sprintf("Swap is %s and cannot become %s", current, target))
}
