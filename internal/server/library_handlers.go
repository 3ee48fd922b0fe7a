package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createLibraryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   *bool  `json:"is_private"`
}

type updateLibraryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPrivate   *bool   `json:"is_private"`
}

// CreateLibrary creates a library owned by the caller; private unless is_private is false (protected)
// @Summary Create library
// @Tags libraries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body server.createLibraryRequest true "Request body"
// @Success 201 {object} models.Library
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /libraries [post]
func (s *Server) CreateLibrary(c *fiber.Ctx) error {
	var req createLibraryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	library, err := s.libraryService.CreateLibrary(c.UserContext(), service.CreateLibraryInput{
		OwnerID:     currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(library)
}

// GetLibrary returns a library visible to the caller (optional auth)
// @Summary Get library
// @Tags libraries
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.Library
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /libraries/{id} [get]
func (s *Server) GetLibrary(c *fiber.Ctx) error {
	libraryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	library, err := s.libraryService.GetLibrary(c.UserContext(), currentUserID(c), libraryID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(library)
}

// UpdateLibrary handles PUT /api/libraries/{id}
// @Summary Update library
// @Tags libraries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body server.updateLibraryRequest true "Request body"
// @Success 200 {object} models.Library
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /libraries/{id} [put]
func (s *Server) UpdateLibrary(c *fiber.Ctx) error {
	libraryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateLibraryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	library, err := s.libraryService.UpdateLibrary(c.UserContext(), service.UpdateLibraryInput{
		ActorID:     currentUserID(c),
		LibraryID:   libraryID,
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(library)
}

// DeleteLibrary handles DELETE /api/libraries/{id}
// @Summary Delete library
// @Tags libraries
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /libraries/{id} [delete]
func (s *Server) DeleteLibrary(c *fiber.Ctx) error {
	libraryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.libraryService.DeleteLibrary(c.UserContext(), currentUserID(c), libraryID); err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAuthorLibraries lists :id's libraries; private ones only for the owner (optional auth)
// @Summary List an author's libraries
// @Tags libraries
// @Produce json
// @Param id path int true "ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Library
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /authors/{id}/libraries [get]
func (s *Server) GetAuthorLibraries(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageSize)
	libraries, err := s.libraryService.ListUserLibraries(c.UserContext(), currentUserID(c), ownerID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(libraries)
}

// GetLibraryStories lists the stories in a library (optional auth)
// @Summary List library stories
// @Tags libraries
// @Produce json
// @Param id path int true "ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Story
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /libraries/{id}/stories [get]
func (s *Server) GetLibraryStories(c *fiber.Ctx) error {
	libraryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageSize)
	stories, err := s.libraryService.ListLibraryStories(c.UserContext(), currentUserID(c), libraryID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(stories)
}

// AddLibraryStory handles POST /api/libraries/{id}/stories/{storyId}
// @Summary Add story to library
// @Tags libraries
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param storyId path int true "Story ID"
// @Success 201 {object} models.LibraryStory
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /libraries/{id}/stories/{storyId} [post]
func (s *Server) AddLibraryStory(c *fiber.Ctx) error {
	libraryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	storyID, err := s.parseID(c, "storyId")
	if err != nil {
		return nil
	}
	entry, err := s.libraryService.AddStory(c.UserContext(), currentUserID(c), libraryID, storyID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// RemoveLibraryStory handles DELETE /api/libraries/{id}/stories/{storyId}
// @Summary Remove story from library
// @Tags libraries
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param storyId path int true "Story ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /libraries/{id}/stories/{storyId} [delete]
func (s *Server) RemoveLibraryStory(c *fiber.Ctx) error {
	libraryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	storyID, err := s.parseID(c, "storyId")
	if err != nil {
		return nil
	}
	if err := s.libraryService.RemoveStory(c.UserContext(), currentUserID(c), libraryID, storyID); err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
