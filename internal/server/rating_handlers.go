// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"fmt"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RateSwap handles POST /api/swaps/:id/ratings
// @Summary Rate a completed swap
// @Description Score the other participant 1-5; re-submitting replaces the previous rating
// @Tags ratings
// @Accept json
// @Produce json
// @Param id path int true "Swap ID"
// @Param request body object{score=int,feedback=string} true "Rating"
// @Success 201 {object} models.Rating
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /swaps/{id}/ratings [post]
func (s *Server) RateSwap(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	swapID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Score    int    `json:"score"`
		Feedback string `json:"feedback"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rating, err := s.ratingService.RateSwap(c.UserContext(), service.RateSwapInput{
		RaterID:  userID,
		SwapID:   swapID,
		Score:    req.Score,
		Feedback: req.Feedback,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(rating.RatedID, EventRatingReceived,
		"New rating",
		fmt.Sprintf("You received a %d-star rating", rating.Score),
		map[string]interface{}{
			"swap_id":  rating.SwapID,
			"rater_id": rating.RaterID,
			"score":    rating.Score,
		})

	return c.Status(fiber.StatusCreated).JSON(rating)
}
