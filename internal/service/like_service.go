package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// LikeService manages likes and notifies story authors of new ones.
type LikeService struct {
	likes   repository.LikeRepository
	stories repository.StoryRepository
	fanout  *Fanout
}

func NewLikeService(likes repository.LikeRepository, stories repository.StoryRepository, fanout *Fanout) *LikeService {
	return &LikeService{likes: likes, stories: stories, fanout: fanout}
}

// LikeStory records the actor's like. A repeated like fails with ALREADY_EXISTS
// and produces no notification.
func (s *LikeService) LikeStory(ctx context.Context, actorID, storyID uint) (*models.Like, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	like := &models.Like{StoryID: story.ID, UserID: actorID}
	if err := s.likes.Create(ctx, like); err != nil {
		return nil, err
	}
	cache.InvalidateLikeCount(ctx, story.ID)
	s.fanout.AfterLike(ctx, like, story)
	return like, nil
}

func (s *LikeService) UnlikeStory(ctx context.Context, actorID, storyID uint) error {
	if _, err := s.stories.GetByID(ctx, storyID); err != nil {
		return err
	}
	if err := s.likes.Delete(ctx, storyID, actorID); err != nil {
		return err
	}
	cache.InvalidateLikeCount(ctx, storyID)
	return nil
}

func (s *LikeService) ListLikes(ctx context.Context, storyID uint, limit, offset int) ([]*models.Like, error) {
	return s.likes.ListByStory(ctx, storyID, limit, offset)
}

func (s *LikeService) CountLikes(ctx context.Context, storyID uint) (int64, error) {
	return cache.Count(ctx, cache.LikeCountKey(storyID), func(ctx context.Context) (int64, error) {
		return s.likes.CountByStory(ctx, storyID)
	})
}
