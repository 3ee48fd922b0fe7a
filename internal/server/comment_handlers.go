package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// CreateComment comments on a story, or replies when parent_id is set (protected)
// @Summary Create comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body server.commentRequest true "Request body"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		AuthorID: currentUserID(c),
		StoryID:  storyID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ReplyToComment answers an existing comment (protected)
// @Summary Reply to comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body server.commentRequest true "Request body"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id}/replies [post]
func (s *Server) ReplyToComment(c *fiber.Ctx) error {
	parentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	reply, err := s.commentService.Reply(c.UserContext(), currentUserID(c), parentID, req.Content)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// GetComments returns the comment thread of a story (public).
// ?flat=true returns the comments unnested and paginated.
// @Summary List story comments
// @Tags comments
// @Produce json
// @Param id path int true "ID"
// @Param flat query bool false "Return a flat paginated list instead of the thread"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if c.QueryBool("flat", false) {
		page := parsePagination(c, defaultPageSize)
		comments, err := s.commentService.ListComments(c.UserContext(), storyID, page.Limit, page.Offset)
		if err != nil {
			return respondAppError(c, err)
		}
		return c.JSON(comments)
	}

	thread, err := s.commentService.Thread(c.UserContext(), storyID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(thread)
}

// GetCommentCount returns the number of comments on a story (public)
// @Summary Count story comments
// @Tags comments
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} object{story_id=int,count=int}
// @Failure 400 {object} models.ErrorResponse
// @Router /stories/{id}/comments/count [get]
func (s *Server) GetCommentCount(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	count, err := s.commentService.CountComments(c.UserContext(), storyID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"story_id": storyID, "count": count})
}

// GetComment handles GET /api/comments/{id}
// @Summary Get comment
// @Tags comments
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comment, err := s.commentService.GetComment(c.UserContext(), commentID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(comment)
}

// UpdateComment updates a comment (only owner)
// @Summary Update comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body server.commentRequest true "Request body"
// @Success 200 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), currentUserID(c), commentID, req.Content)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment deletes a comment and its replies (owner only)
// @Summary Delete comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.commentService.DeleteComment(c.UserContext(), currentUserID(c), commentID); err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
