package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// FollowService manages the follow graph.
type FollowService struct {
	followers repository.FollowerRepository
	authors   repository.AuthorRepository
	fanout    *Fanout
}

func NewFollowService(followers repository.FollowerRepository, authors repository.AuthorRepository, fanout *Fanout) *FollowService {
	return &FollowService{followers: followers, authors: authors, fanout: fanout}
}

// Follow makes actorID follow targetID. Duplicates are detected by the
// store's unique index, not by a prior read.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID uint) (*models.Follower, error) {
	if actorID == targetID {
		return nil, models.NewInvalidOperationError("You cannot follow yourself")
	}
	if _, err := s.authors.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	edge := &models.Follower{FollowerID: actorID, FollowedID: targetID}
	if err := s.followers.Create(ctx, edge); err != nil {
		return nil, err
	}
	cache.InvalidateFollowCounts(ctx, actorID, targetID)
	s.fanout.AfterFollow(ctx, edge)
	return edge, nil
}

func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return models.NewInvalidOperationError("You cannot unfollow yourself")
	}
	if _, err := s.authors.GetByID(ctx, targetID); err != nil {
		return err
	}
	if err := s.followers.Delete(ctx, actorID, targetID); err != nil {
		return err
	}
	cache.InvalidateFollowCounts(ctx, actorID, targetID)
	return nil
}

// Followers lists the edges whose followed side is userID.
func (s *FollowService) Followers(ctx context.Context, userID uint, limit, offset int) ([]*models.Follower, error) {
	return s.followers.Followers(ctx, userID, limit, offset)
}

// Followings lists the edges whose follower side is userID.
func (s *FollowService) Followings(ctx context.Context, userID uint, limit, offset int) ([]*models.Follower, error) {
	return s.followers.Followings(ctx, userID, limit, offset)
}

func (s *FollowService) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	return cache.Count(ctx, cache.FollowerCountKey(userID), func(ctx context.Context) (int64, error) {
		return s.followers.CountFollowers(ctx, userID)
	})
}

func (s *FollowService) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	return cache.Count(ctx, cache.FollowingCountKey(userID), func(ctx context.Context) (int64, error) {
		return s.followers.CountFollowings(ctx, userID)
	})
}

func (s *FollowService) IsFollowing(ctx context.Context, actorID, targetID uint) (bool, error) {
	return s.followers.Exists(ctx, actorID, targetID)
}
