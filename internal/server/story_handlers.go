package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createStoryRequest struct {
	Title      string             `json:"title"`
	Slug       string             `json:"slug"`
	Content    string             `json:"content"`
	CoverImage string             `json:"cover_image"`
	Status     models.StoryStatus `json:"status"`
	ReadTime   *int               `json:"read_time"`
	TagIDs     []uint             `json:"tag_ids"`
}

type updateStoryRequest struct {
	Title      *string             `json:"title"`
	Slug       *string             `json:"slug"`
	Content    *string             `json:"content"`
	CoverImage *string             `json:"cover_image"`
	Status     *models.StoryStatus `json:"status"`
	ReadTime   *int                `json:"read_time"`
	TagIDs     *[]uint             `json:"tag_ids"`
}

// CreateStory creates a story authored by the caller (protected)
// @Summary Create story
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body server.createStoryRequest true "Request body"
// @Success 201 {object} models.Story
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /stories [post]
func (s *Server) CreateStory(c *fiber.Ctx) error {
	var req createStoryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	story, err := s.storyService.CreateStory(c.UserContext(), service.CreateStoryInput{
		AuthorID:   currentUserID(c),
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Status:     req.Status,
		ReadTime:   req.ReadTime,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(story)
}

// GetStories lists stories, filterable by author, status and tag slug (public)
// @Summary List stories
// @Tags stories
// @Produce json
// @Param author query int false "Author ID"
// @Param status query string false "draft, published or archived"
// @Param tag query string false "Tag slug"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Story
// @Failure 400 {object} models.ErrorResponse
// @Router /stories [get]
func (s *Server) GetStories(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)
	stories, err := s.storyService.ListStories(c.UserContext(), service.ListStoriesInput{
		AuthorID: uint(c.QueryInt("author", 0)),
		Status:   c.Query("status"),
		Tag:      c.Query("tag"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(stories)
}

// GetAuthorStories lists one author's stories (public)
// @Summary List an author's stories
// @Tags stories
// @Produce json
// @Param id path int true "ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Story
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /authors/{id}/stories [get]
func (s *Server) GetAuthorStories(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.authorService.GetAuthor(c.UserContext(), authorID); err != nil {
		return respondAppError(c, err)
	}

	page := parsePagination(c, defaultPageSize)
	stories, err := s.storyService.ListStories(c.UserContext(), service.ListStoriesInput{
		AuthorID: authorID,
		Status:   c.Query("status"),
		Tag:      c.Query("tag"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(stories)
}

// GetStory returns a single story (public)
// @Summary Get story
// @Tags stories
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.Story
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/{id} [get]
func (s *Server) GetStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	story, err := s.storyService.GetStory(c.UserContext(), storyID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(story)
}

// GetStoryBySlug returns a single story by slug (public)
// @Summary Get story by slug
// @Tags stories
// @Produce json
// @Param slug path string true "Story slug"
// @Success 200 {object} models.Story
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/slug/{slug} [get]
func (s *Server) GetStoryBySlug(c *fiber.Ctx) error {
	story, err := s.storyService.GetStoryBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(story)
}

// UpdateStory applies a partial update; only the author may edit (protected)
// @Summary Update story
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body server.updateStoryRequest true "Request body"
// @Success 200 {object} models.Story
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /stories/{id} [put]
func (s *Server) UpdateStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateStoryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	story, err := s.storyService.UpdateStory(c.UserContext(), service.UpdateStoryInput{
		ActorID:    currentUserID(c),
		StoryID:    storyID,
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Status:     req.Status,
		ReadTime:   req.ReadTime,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(story)
}

// DeleteStory deletes a story (author only)
// @Summary Delete story
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/{id} [delete]
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.storyService.DeleteStory(c.UserContext(), currentUserID(c), storyID); err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeStory likes a story as the caller (protected)
// @Summary Like story
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 201 {object} models.Like
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /stories/{id}/like [post]
func (s *Server) LikeStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	like, err := s.likeService.LikeStory(c.UserContext(), currentUserID(c), storyID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// UnlikeStory removes the caller's like (protected)
// @Summary Unlike story
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/{id}/like [delete]
func (s *Server) UnlikeStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.likeService.UnlikeStory(c.UserContext(), currentUserID(c), storyID); err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetStoryLikes lists the likes of a story (public)
// @Summary List story likes
// @Tags likes
// @Produce json
// @Param id path int true "ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Like
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/{id}/likes [get]
func (s *Server) GetStoryLikes(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageSize)
	likes, err := s.likeService.ListLikes(c.UserContext(), storyID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(likes)
}

// GetLikeCount returns the number of likes on a story (public)
// @Summary Count story likes
// @Tags likes
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} object{story_id=int,count=int}
// @Failure 400 {object} models.ErrorResponse
// @Router /stories/{id}/likes/count [get]
func (s *Server) GetLikeCount(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	count, err := s.likeService.CountLikes(c.UserContext(), storyID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"story_id": storyID, "count": count})
}
