package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// AuthorProfile is an author with their follow counts.
type AuthorProfile struct {
	*models.Author
	Followers  int64 `json:"followers_count"`
	Followings int64 `json:"followings_count"`
}

type AuthorService struct {
	authors repository.AuthorRepository
	follows *FollowService
}

func NewAuthorService(authors repository.AuthorRepository, follows *FollowService) *AuthorService {
	return &AuthorService{authors: authors, follows: follows}
}

func (s *AuthorService) GetProfile(ctx context.Context, authorID uint) (*AuthorProfile, error) {
	author, err := s.authors.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	followers, err := s.follows.FollowerCount(ctx, authorID)
	if err != nil {
		return nil, err
	}
	followings, err := s.follows.FollowingCount(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return &AuthorProfile{Author: author, Followers: followers, Followings: followings}, nil
}

func (s *AuthorService) GetAuthor(ctx context.Context, authorID uint) (*models.Author, error) {
	return s.authors.GetByID(ctx, authorID)
}

func (s *AuthorService) GetByUsername(ctx context.Context, username string) (*models.Author, error) {
	return s.authors.GetByUsername(ctx, username)
}

func (s *AuthorService) ListAuthors(ctx context.Context, limit, offset int) ([]models.Author, error) {
	return s.authors.List(ctx, limit, offset)
}
