package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetAuthors lists authors (public)
// @Summary List authors
// @Tags authors
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Author
// @Failure 500 {object} models.ErrorResponse
// @Router /authors [get]
func (s *Server) GetAuthors(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)
	authors, err := s.authorService.ListAuthors(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(authors)
}

// GetAuthor returns an author's profile with follow counts (public)
// @Summary Get author profile
// @Tags authors
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} service.AuthorProfile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /authors/{id} [get]
func (s *Server) GetAuthor(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profile, err := s.authorService.GetProfile(c.UserContext(), authorID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(profile)
}

// GetMyProfile returns the caller's profile (protected)
// @Summary Get current author profile
// @Tags authors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AuthorProfile
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /authors/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.authorService.GetProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(profile)
}

// FollowAuthor makes the caller follow :id (protected)
// @Summary Follow an author
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 201 {object} models.Follower
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /authors/{id}/follow [post]
func (s *Server) FollowAuthor(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	edge, err := s.followService.Follow(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(edge)
}

// UnfollowAuthor removes the caller's follow of :id (protected)
// @Summary Unfollow an author
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /authors/{id}/follow [delete]
func (s *Server) UnfollowAuthor(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.followService.Unfollow(c.UserContext(), currentUserID(c), targetID); err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFollowStatus reports whether the caller follows :id
// @Summary Check follow status
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} object{author_id=int,following=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /authors/{id}/follow [get]
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	following, err := s.followService.IsFollowing(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"author_id": targetID, "following": following})
}

// GetFollowers lists who follows :id (public)
// @Summary List followers
// @Tags follows
// @Produce json
// @Param id path int true "ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Follower
// @Failure 400 {object} models.ErrorResponse
// @Router /authors/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageSize)
	edges, err := s.followService.Followers(c.UserContext(), authorID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(edges)
}

// GetFollowings lists whom :id follows (public)
// @Summary List followed authors
// @Tags follows
// @Produce json
// @Param id path int true "ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Follower
// @Failure 400 {object} models.ErrorResponse
// @Router /authors/{id}/followings [get]
func (s *Server) GetFollowings(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageSize)
	edges, err := s.followService.Followings(c.UserContext(), authorID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(edges)
}

// GetFollowerCount handles GET /api/authors/{id}/followers/count
// @Summary Count followers
// @Tags follows
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} object{author_id=int,count=int}
// @Failure 400 {object} models.ErrorResponse
// @Router /authors/{id}/followers/count [get]
func (s *Server) GetFollowerCount(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	count, err := s.followService.FollowerCount(c.UserContext(), authorID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"author_id": authorID, "count": count})
}

// GetFollowingCount handles GET /api/authors/{id}/followings/count
// @Summary Count followed authors
// @Tags follows
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} object{author_id=int,count=int}
// @Failure 400 {object} models.ErrorResponse
// @Router /authors/{id}/followings/count [get]
func (s *Server) GetFollowingCount(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	count, err := s.followService.FollowingCount(c.UserContext(), authorID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"author_id": authorID, "count": count})
}
