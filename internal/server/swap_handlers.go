// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateSwapRequest handles POST /api/swaps
// @Summary Create a swap request
// @Description Offer one of your skills in exchange for a skill another user offers
// @Tags swaps
// @Accept json
// @Produce json
// @Param request body object{offered_skill_id=int,wanted_skill_id=int,message=string} true "Swap request"
// @Success 201 {object} models.SwapRequest
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Security BearerAuth
// @Router /swaps [post]
func (s *Server) CreateSwapRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		OfferedSkillID uint   `json:"offered_skill_id"`
		WantedSkillID  uint   `json:"wanted_skill_id"`
		Message        string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	swap, err := s.swapService.CreateSwapRequest(c.UserContext(), service.CreateSwapInput{
		RequesterID:    userID,
		OfferedSkillID: req.OfferedSkillID,
		WantedSkillID:  req.WantedSkillID,
		Message:        req.Message,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	payload := swapSummary(swap)
	payload["message"] = swap.Message
	payload["requester"] = userSummary(swap.Requester)
	s.publishUserEvent(swap.ProviderID(), EventSwapRequestReceived,
		"New swap request",
		fmt.Sprintf("%s wants to swap for your skill", swap.Requester.Username),
		payload)

	return c.Status(fiber.StatusCreated).JSON(swap)
}

// GetSwap handles GET /api/swaps/:id
// @Summary Get a swap request
// @Description Only the requester and the provider may view a swap
// @Tags swaps
// @Produce json
// @Param id path int true "Swap ID"
// @Success 200 {object} models.SwapRequest
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /swaps/{id} [get]
func (s *Server) GetSwap(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	swapID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	swap, err := s.swapService.GetSwap(c.UserContext(), userID, swapID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(swap)
}

// GetIncomingSwaps handles GET /api/swaps/incoming
// @Summary List swaps where you are the provider
// @Tags swaps
// @Produce json
// @Param limit query int false "Max results (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.SwapRequest
// @Security BearerAuth
// @Router /swaps/incoming [get]
func (s *Server) GetIncomingSwaps(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	swaps, err := s.swapService.ListIncoming(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(swaps)
}

// GetOutgoingSwaps handles GET /api/swaps/outgoing
// @Summary List swaps you requested
// @Tags swaps
// @Produce json
// @Param limit query int false "Max results (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.SwapRequest
// @Security BearerAuth
// @Router /swaps/outgoing [get]
func (s *Server) GetOutgoingSwaps(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	swaps, err := s.swapService.ListOutgoing(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(swaps)
}

// GetMySwaps handles GET /api/swaps
// @Summary List swaps you participate in, either direction
// @Tags swaps
// @Produce json
// @Param limit query int false "Max results (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.SwapRequest
// @Security BearerAuth
// @Router /swaps [get]
func (s *Server) GetMySwaps(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	swaps, err := s.swapService.ListMine(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(swaps)
}

// AcceptSwap handles POST /api/swaps/:id/accept
// @Summary Accept a pending swap (provider only)
// @Tags swaps
// @Produce json
// @Param id path int true "Swap ID"
// @Success 200 {object} models.SwapRequest
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Security BearerAuth
// @Router /swaps/{id}/accept [post]
func (s *Server) AcceptSwap(c *fiber.Ctx) error {
	return s.handleSwapTransition(c, s.swapService.Accept)
}

// RejectSwap handles POST /api/swaps/:id/reject
// @Summary Reject a pending swap (provider only)
// @Tags swaps
// @Produce json
// @Param id path int true "Swap ID"
// @Success 200 {object} models.SwapRequest
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Security BearerAuth
// @Router /swaps/{id}/reject [post]
func (s *Server) RejectSwap(c *fiber.Ctx) error {
	return s.handleSwapTransition(c, s.swapService.Reject)
}

// CancelSwap handles POST /api/swaps/:id/cancel
// @Summary Cancel a pending swap (requester only)
// @Tags swaps
// @Produce json
// @Param id path int true "Swap ID"
// @Success 200 {object} models.SwapRequest
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Security BearerAuth
// @Router /swaps/{id}/cancel [post]
func (s *Server) CancelSwap(c *fiber.Ctx) error {
	return s.handleSwapTransition(c, s.swapService.Cancel)
}

// CompleteSwap handles POST /api/swaps/:id/complete
// @Summary Mark an accepted swap completed (either participant)
// @Tags swaps
// @Produce json
// @Param id path int true "Swap ID"
// @Success 200 {object} models.SwapRequest
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Security BearerAuth
// @Router /swaps/{id}/complete [post]
func (s *Server) CompleteSwap(c *fiber.Ctx) error {
	return s.handleSwapTransition(c, s.swapService.Complete)
}

// handleSwapTransition runs one state-machine transition and notifies the
// other participant of the new status.
func (s *Server) handleSwapTransition(c *fiber.Ctx,
	transition func(ctx context.Context, userID, swapID uint) (*models.SwapRequest, error)) error {
	userID := c.Locals("userID").(uint)

	swapID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	swap, err := transition(c.UserContext(), userID, swapID)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Notify the participant who did not perform the action.
	other := swap.RequesterID
	if userID == swap.RequesterID {
		other = swap.ProviderID()
	}
	s.publishUserEvent(other, EventSwapStatusUpdated,
		"Swap request updated",
		fmt.Sprintf("Your swap request is now %s", swap.Status),
		swapSummary(swap))

	return c.JSON(swap)
}

// UpdateSwapStatus handles PUT /api/swaps/:id/status
// @Summary Transition a swap to a new status
// @Description Equivalent to the accept/reject/cancel/complete actions, selected by body
// @Tags swaps
// @Accept json
// @Produce json
// @Param id path int true "Swap ID"
// @Param request body object{status=string} true "Target status"
// @Success 200 {object} models.SwapRequest
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Security BearerAuth
// @Router /swaps/{id}/status [put]
func (s *Server) UpdateSwapStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var transition func(ctx context.Context, userID, swapID uint) (*models.SwapRequest, error)
	switch models.SwapStatus(req.Status) {
	case models.SwapStatusAccepted:
		transition = s.swapService.Accept
	case models.SwapStatusRejected:
		transition = s.swapService.Reject
	case models.SwapStatusCancelled:
		transition = s.swapService.Cancel
	case models.SwapStatusCompleted:
		transition = s.swapService.Complete
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Status must be one of accepted, rejected, cancelled, completed"))
	}

	return s.handleSwapTransition(c, transition)
}

// DeleteSwap handles DELETE /api/swaps/:id
// @Summary Delete a pending swap
// @Description Removes a swap that has not left the pending state
// @Tags swaps
// @Produce json
// @Param id path int true "Swap ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Security BearerAuth
// @Router /swaps/{id} [delete]
func (s *Server) DeleteSwap(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	swapID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.swapService.Delete(c.UserContext(), userID, swapID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Swap request deleted"})
}
