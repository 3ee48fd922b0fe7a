package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// CommentService manages comments and reply threads.
type CommentService struct {
	comments repository.CommentRepository
	stories  repository.StoryRepository
	fanout   *Fanout
}

type CreateCommentInput struct {
	AuthorID uint
	StoryID  uint
	Content  string
	ParentID *uint
}

func NewCommentService(comments repository.CommentRepository, stories repository.StoryRepository, fanout *Fanout) *CommentService {
	return &CommentService{comments: comments, stories: stories, fanout: fanout}
}

// CreateComment adds a comment to a story. With ParentID set it behaves as Reply
// and the story is taken from the parent.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.ParentID != nil {
		return s.Reply(ctx, in.AuthorID, *in.ParentID, in.Content)
	}
	if err := validation.ValidateCommentContent(in.Content); err != nil {
		return nil, invalid(err)
	}

	story, err := s.stories.GetByID(ctx, in.StoryID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, story, &models.Comment{
		StoryID:  story.ID,
		AuthorID: in.AuthorID,
		Content:  in.Content,
	})
}

// Reply answers parentID. The reply always belongs to the parent's story.
func (s *CommentService) Reply(ctx context.Context, actorID, parentID uint, content string) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, invalid(err)
	}

	parent, err := s.comments.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	story, err := s.stories.GetByID(ctx, parent.StoryID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, story, &models.Comment{
		StoryID:  parent.StoryID,
		AuthorID: actorID,
		Content:  content,
		ParentID: &parent.ID,
	})
}

func (s *CommentService) create(ctx context.Context, story *models.Story, comment *models.Comment) (*models.Comment, error) {
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	cache.InvalidateCommentCount(ctx, story.ID)
	s.fanout.AfterComment(ctx, comment, story)
	return s.comments.GetByID(ctx, comment.ID)
}

func (s *CommentService) UpdateComment(ctx context.Context, actorID, commentID uint, content string) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, invalid(err)
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actorID {
		return nil, models.NewForbiddenError("Only the author can edit this comment")
	}
	comment.Content = content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes the comment and every reply beneath it.
func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actorID {
		return models.NewForbiddenError("Only the author can delete this comment")
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	cache.InvalidateCommentCount(ctx, comment.StoryID)
	return nil
}

func (s *CommentService) GetComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	return s.comments.GetByID(ctx, commentID)
}

func (s *CommentService) ListComments(ctx context.Context, storyID uint, limit, offset int) ([]*models.Comment, error) {
	return s.comments.ListByStory(ctx, storyID, limit, offset)
}

func (s *CommentService) CountComments(ctx context.Context, storyID uint) (int64, error) {
	return cache.Count(ctx, cache.CommentCountKey(storyID), func(ctx context.Context) (int64, error) {
		return s.comments.CountByStory(ctx, storyID)
	})
}

// Thread returns the story's top-level comments in creation order with their
// replies nested beneath them.
func (s *CommentService) Thread(ctx context.Context, storyID uint) ([]*models.Comment, error) {
	if _, err := s.stories.GetByID(ctx, storyID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByStory(ctx, storyID, 0, 0)
	if err != nil {
		return nil, err
	}
	return BuildThread(comments), nil
}

// BuildThread nests comments under their parents. Input order is preserved
// among siblings. A reply whose parent is missing from the input becomes a root.
func BuildThread(comments []*models.Comment) []*models.Comment {
	byID := make(map[uint]*models.Comment, len(comments))
	for _, c := range comments {
		c.Replies = nil
		byID[c.ID] = c
	}

	roots := make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok && parent != c {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}
