// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"fmt"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAdminStats handles GET /api/admin/stats
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Success 200 {object} service.PlatformStats
// @Security BearerAuth
// @Router /admin/stats [get]
func (s *Server) GetAdminStats(c *fiber.Ctx) error {
	stats, err := s.adminService.Stats(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetAdminUsers handles GET /api/admin/users
// @Summary List all users including banned ones
// @Tags admin
// @Produce json
// @Param limit query int false "Max results (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Security BearerAuth
// @Router /admin/users [get]
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	users, err := s.adminService.ListUsers(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// BanUser handles POST /api/admin/users/:id/ban
// @Summary Ban a user
// @Description Banned users cannot authenticate and disappear from search
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{reason=string} false "Ban reason"
// @Success 200 {object} models.User
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /admin/users/{id}/ban [post]
func (s *Server) BanUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional; a bare POST bans without a reason.
	_ = c.BodyParser(&req)

	user, err := s.adminService.BanUser(c.UserContext(), targetID, req.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Tell the user's live connection before the next authenticated request
	// tears it down.
	banMsg := "Your account has been banned"
	if user.BannedReason != "" {
		banMsg = fmt.Sprintf("Your account has been banned: %s", user.BannedReason)
	}
	s.publishUserEvent(targetID, EventAccountBanned, "Account banned", banMsg,
		map[string]interface{}{
			"reason": user.BannedReason,
		})

	return c.JSON(user)
}

// UnbanUser handles POST /api/admin/users/:id/unban
// @Summary Lift a user's ban
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /admin/users/{id}/unban [post]
func (s *Server) UnbanUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.adminService.UnbanUser(c.UserContext(), targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// BroadcastMessage handles POST /api/admin/broadcast
// @Summary Broadcast an announcement
// @Description Store the announcement and push it to every connected client
// @Tags admin
// @Accept json
// @Produce json
// @Param request body object{title=string,body=string,category=string} true "Announcement"
// @Success 201 {object} models.AdminMessage
// @Failure 400 {object} object{error=string}
// @Security BearerAuth
// @Router /admin/broadcast [post]
func (s *Server) BroadcastMessage(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Body     string `json:"body"`
		Category string `json:"category"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.adminService.Broadcast(c.UserContext(), service.BroadcastInput{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(EventAdminBroadcast, msg.Title, msg.Body,
		map[string]interface{}{
			"id":       msg.ID,
			"title":    msg.Title,
			"body":     msg.Body,
			"category": msg.Category,
		})

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetAdminMessages handles GET /api/admin/messages
// @Summary List past announcements
// @Tags admin
// @Produce json
// @Param limit query int false "Max results (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.AdminMessage
// @Security BearerAuth
// @Router /admin/messages [get]
func (s *Server) GetAdminMessages(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	msgs, err := s.adminService.ListMessages(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(msgs)
}

// DeleteAdminMessage handles DELETE /api/admin/messages/:id
// @Summary Delete an announcement
// @Tags admin
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /admin/messages/{id} [delete]
func (s *Server) DeleteAdminMessage(c *fiber.Ctx) error {
	msgID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.adminService.DeleteMessage(c.UserContext(), msgID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Message deleted"})
}

// GetFeatureFlags handles GET /api/admin/feature-flags
// @Summary Inspect feature flag configuration
// @Tags admin
// @Produce json
// @Success 200 {object} object{raw=object,snapshot=object}
// @Security BearerAuth
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	return c.JSON(fiber.Map{
		"raw":      s.featureFlags.Raw(),
		"snapshot": s.featureFlags.Snapshot(userID),
	})
}
