// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Get own profile
// @Description Return the authenticated user's profile with skills
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetProfile(c.UserContext(), userID, userID, false)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Description Update profile fields; omitted fields are left unchanged
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{username=string,bio=string,avatar=string,location=string,availability=string} true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} object{error=string}
// @Security BearerAuth
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username     string `json:"username"`
		Bio          string `json:"bio"`
		Avatar       string `json:"avatar"`
		Location     string `json:"location"`
		Availability string `json:"availability"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:       userID,
		Username:     req.Username,
		Bio:          req.Bio,
		Avatar:       req.Avatar,
		Location:     req.Location,
		Availability: req.Availability,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// SetMyVisibility handles PUT /api/users/me/visibility
// @Summary Set profile visibility
// @Description Toggle whether the profile appears in search and is publicly viewable
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{is_public=bool} true "Visibility"
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /users/me/visibility [put]
func (s *Server) SetMyVisibility(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		IsPublic *bool `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil || req.IsPublic == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("is_public is required"))
	}

	user, err := s.userService.SetVisibility(c.UserContext(), userID, *req.IsPublic)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Max results (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Security BearerAuth
// @Router /users [get]
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userService.ListUsers(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// SearchUsersBySkill handles GET /api/users/search?skill=
// @Summary Search users by offered skill
// @Description Find public users offering a skill matching the query
// @Tags users
// @Produce json
// @Param skill query string true "Skill name (substring match)"
// @Param limit query int false "Max results (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Failure 400 {object} object{error=string}
// @Security BearerAuth
// @Router /users/search [get]
func (s *Server) SearchUsersBySkill(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userService.SearchBySkill(c.UserContext(), c.Query("skill"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get a user profile
// @Description Private or banned profiles are hidden from everyone but the owner and admins
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerIsAdmin, err := s.isAdmin(c, viewerID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user, err := s.userService.GetProfile(c.UserContext(), viewerID, targetID, viewerIsAdmin)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserSkills handles GET /api/users/:id/skills
// @Summary List a user's skills
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param type query string false "Filter by skill type (offered|wanted)"
// @Success 200 {array} models.Skill
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /users/{id}/skills [get]
func (s *Server) GetUserSkills(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	skills, err := s.skillService.ListUserSkills(c.UserContext(), targetID, models.SkillType(c.Query("type")))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(skills)
}

// GetUserRatings handles GET /api/users/:id/ratings
// @Summary List ratings received by a user, with their aggregate
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param limit query int false "Max results (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {object} service.UserRatings
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /users/{id}/ratings [get]
func (s *Server) GetUserRatings(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	ratings, err := s.ratingService.ListUserRatings(c.UserContext(), targetID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ratings)
}

// PromoteToAdmin handles POST /api/admin/users/:id/promote
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetAdmin(c.UserContext(), targetID, true)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DemoteFromAdmin handles POST /api/admin/users/:id/demote
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if targetID == adminID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot demote yourself"))
	}

	user, err := s.userService.SetAdmin(c.UserContext(), targetID, false)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
