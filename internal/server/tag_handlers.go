package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type tagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GetTags handles GET /api/tags
// @Summary List tags
// @Tags tags
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Tag
// @Failure 500 {object} models.ErrorResponse
// @Router /tags [get]
func (s *Server) GetTags(c *fiber.Ctx) error {
	page := parsePagination(c, maxPaginationLimit)
	tags, err := s.tagService.ListTags(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(tags)
}

// GetTag handles GET /api/tags/{id}
// @Summary Get tag
// @Tags tags
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.Tag
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tags/{id} [get]
func (s *Server) GetTag(c *fiber.Ctx) error {
	tagID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	tag, err := s.tagService.GetTag(c.UserContext(), tagID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(tag)
}

// CreateTag creates a tag; the slug is derived from the name when omitted (protected)
// @Summary Create tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body server.tagRequest true "Request body"
// @Success 201 {object} models.Tag
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /tags [post]
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req tagRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	tag, err := s.tagService.CreateTag(c.UserContext(), service.TagInput(req))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// UpdateTag handles PUT /api/tags/{id}
// @Summary Update tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body server.tagRequest true "Request body"
// @Success 200 {object} models.Tag
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /tags/{id} [put]
func (s *Server) UpdateTag(c *fiber.Ctx) error {
	tagID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req tagRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	tag, err := s.tagService.UpdateTag(c.UserContext(), tagID, service.TagInput(req))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(tag)
}

// DeleteTag handles DELETE /api/tags/{id}
// @Summary Delete tag
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tags/{id} [delete]
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	tagID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.tagService.DeleteTag(c.UserContext(), tagID); err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
