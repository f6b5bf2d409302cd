// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

type skillRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Proficiency string `json:"proficiency"`
	Type        string `json:"type"`
}

func (r skillRequest) toInput() service.SkillInput {
	return service.SkillInput{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Proficiency: models.SkillProficiency(r.Proficiency),
		Type:        models.SkillType(r.Type),
	}
}

// AddSkill handles POST /api/skills
// @Summary Add a skill
// @Description Add an offered or wanted skill to the authenticated user's profile
// @Tags skills
// @Accept json
// @Produce json
// @Param request body skillRequest true "Skill"
// @Success 201 {object} models.Skill
// @Failure 400 {object} object{error=string}
// @Security BearerAuth
// @Router /skills [post]
func (s *Server) AddSkill(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req skillRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	skill, err := s.skillService.AddSkill(c.UserContext(), userID, req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(skill)
}

// GetMySkills handles GET /api/skills/me
// @Summary List own skills
// @Tags skills
// @Produce json
// @Param type query string false "Filter by skill type (offered|wanted)"
// @Success 200 {array} models.Skill
// @Security BearerAuth
// @Router /skills/me [get]
func (s *Server) GetMySkills(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	skills, err := s.skillService.ListUserSkills(c.UserContext(), userID, models.SkillType(c.Query("type")))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(skills)
}

// UpdateSkill handles PUT /api/skills/:id
// @Summary Update a skill
// @Description Update one of the authenticated user's skills; empty fields keep their value
// @Tags skills
// @Accept json
// @Produce json
// @Param id path int true "Skill ID"
// @Param request body skillRequest true "Skill fields"
// @Success 200 {object} models.Skill
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /skills/{id} [put]
func (s *Server) UpdateSkill(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	skillID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req skillRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	skill, err := s.skillService.UpdateSkill(c.UserContext(), userID, skillID, req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(skill)
}

// DeleteSkill handles DELETE /api/skills/:id
// @Summary Delete a skill
// @Tags skills
// @Produce json
// @Param id path int true "Skill ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /skills/{id} [delete]
func (s *Server) DeleteSkill(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	skillID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.skillService.DeleteSkill(c.UserContext(), userID, skillID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Skill deleted"})
}

// GetPopularSkills handles GET /api/skills/popular
// @Summary Most offered skills
// @Description Skill names ranked by how many users offer them
// @Tags skills
// @Produce json
// @Param limit query int false "Max results (default 10, max 50)"
// @Success 200 {array} repository.PopularSkill
// @Router /skills/popular [get]
func (s *Server) GetPopularSkills(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	skills, err := s.skillService.PopularSkills(c.UserContext(), limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(skills)
}
