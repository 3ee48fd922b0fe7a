package service

import (
	"context"
	"fmt"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"github.com/google/uuid"
)

// maxSlugAttempts bounds the numeric suffix search before falling back to a random suffix.
const maxSlugAttempts = 20

// StoryService runs story writes through detect, persist, fan-out.
type StoryService struct {
	stories  repository.StoryRepository
	tags     repository.TagRepository
	detector *TransitionDetector
	fanout   *Fanout
}

type CreateStoryInput struct {
	AuthorID   uint
	Title      string
	Slug       string
	Content    string
	CoverImage string
	Status     models.StoryStatus
	ReadTime   *int
	TagIDs     []uint
}

// UpdateStoryInput carries a partial update; nil fields are left unchanged.
type UpdateStoryInput struct {
	ActorID    uint
	StoryID    uint
	Title      *string
	Slug       *string
	Content    *string
	CoverImage *string
	Status     *models.StoryStatus
	ReadTime   *int
	TagIDs     *[]uint
}

type ListStoriesInput struct {
	AuthorID uint
	Status   string
	Tag      string
	Limit    int
	Offset   int
}

func NewStoryService(
	stories repository.StoryRepository,
	tags repository.TagRepository,
	fanout *Fanout,
) *StoryService {
	return &StoryService{
		stories:  stories,
		tags:     tags,
		detector: NewTransitionDetector(stories),
		fanout:   fanout,
	}
}

func (s *StoryService) CreateStory(ctx context.Context, in CreateStoryInput) (*models.Story, error) {
	if err := validation.ValidateStoryTitle(in.Title); err != nil {
		return nil, invalid(err)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("content is required")
	}
	status := in.Status
	if status == "" {
		status = models.StoryStatusDraft
	}
	if !status.Valid() {
		return nil, models.NewValidationError("status must be one of draft, published, archived")
	}
	if in.ReadTime != nil && *in.ReadTime < 0 {
		return nil, models.NewValidationError("read_time must not be negative")
	}

	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	slug, err := s.resolveSlug(ctx, in.Slug, in.Title, 0)
	if err != nil {
		return nil, err
	}

	story := &models.Story{
		Title:      strings.TrimSpace(in.Title),
		Slug:       slug,
		Content:    in.Content,
		AuthorID:   in.AuthorID,
		CoverImage: in.CoverImage,
		Status:     status,
		ReadTime:   in.ReadTime,
		Tags:       tags,
	}

	tr := s.detector.Detect(ctx, 0, story.Status)
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}
	s.fanout.AfterStoryWrite(ctx, story, tr)

	return s.stories.GetByID(ctx, story.ID)
}

func (s *StoryService) UpdateStory(ctx context.Context, in UpdateStoryInput) (*models.Story, error) {
	story, err := s.stories.GetByID(ctx, in.StoryID)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != in.ActorID {
		return nil, models.NewForbiddenError("Only the author can edit this story")
	}

	if in.Title != nil {
		if err := validation.ValidateStoryTitle(*in.Title); err != nil {
			return nil, invalid(err)
		}
		story.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("content is required")
		}
		story.Content = *in.Content
	}
	if in.CoverImage != nil {
		story.CoverImage = *in.CoverImage
	}
	if in.ReadTime != nil {
		if *in.ReadTime < 0 {
			return nil, models.NewValidationError("read_time must not be negative")
		}
		story.ReadTime = in.ReadTime
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, models.NewValidationError("status must be one of draft, published, archived")
		}
		story.Status = *in.Status
	}
	if in.Slug != nil && *in.Slug != story.Slug {
		slug, err := s.resolveSlug(ctx, *in.Slug, story.Title, story.ID)
		if err != nil {
			return nil, err
		}
		story.Slug = slug
	}

	var tags []models.Tag
	if in.TagIDs != nil {
		if tags, err = s.resolveTags(ctx, *in.TagIDs); err != nil {
			return nil, err
		}
	}

	tr := s.detector.Detect(ctx, story.ID, story.Status)
	if err := s.stories.Update(ctx, story); err != nil {
		return nil, err
	}
	if in.TagIDs != nil {
		if err := s.stories.ReplaceTags(ctx, story, tags); err != nil {
			return nil, err
		}
	}
	s.fanout.AfterStoryWrite(ctx, story, tr)

	return s.stories.GetByID(ctx, story.ID)
}

func (s *StoryService) DeleteStory(ctx context.Context, actorID, storyID uint) error {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.AuthorID != actorID {
		return models.NewForbiddenError("Only the author can delete this story")
	}
	if err := s.stories.Delete(ctx, storyID); err != nil {
		return err
	}
	cache.InvalidateStory(ctx, storyID)
	return nil
}

func (s *StoryService) GetStory(ctx context.Context, storyID uint) (*models.Story, error) {
	return s.stories.GetByID(ctx, storyID)
}

func (s *StoryService) GetStoryBySlug(ctx context.Context, slug string) (*models.Story, error) {
	return s.stories.GetBySlug(ctx, slug)
}

func (s *StoryService) ListStories(ctx context.Context, in ListStoriesInput) ([]*models.Story, error) {
	filter := models.StoryFilter{
		AuthorID: in.AuthorID,
		TagSlug:  strings.TrimSpace(in.Tag),
		Limit:    in.Limit,
		Offset:   in.Offset,
	}
	if in.Status != "" {
		status := models.StoryStatus(strings.ToLower(in.Status))
		if !status.Valid() {
			return nil, models.NewValidationError("status must be one of draft, published, archived")
		}
		filter.Status = status
	}
	return s.stories.List(ctx, filter)
}

// resolveSlug validates an explicit slug, or derives one from the title and
// appends -2, -3, ... until it is free.
func (s *StoryService) resolveSlug(ctx context.Context, explicit, title string, excludeID uint) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if err := validation.ValidateSlug(explicit); err != nil {
			return "", invalid(err)
		}
		exists, err := s.stories.SlugExists(ctx, explicit, excludeID)
		if err != nil {
			return "", err
		}
		if exists {
			return "", models.NewAlreadyExistsError("A story with this slug already exists")
		}
		return explicit, nil
	}

	base := validation.Slugify(title)
	candidate := base
	for i := 2; i <= maxSlugAttempts; i++ {
		exists, err := s.stories.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

func (s *StoryService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	tags, err := s.tags.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, models.NewValidationError("one or more tags do not exist")
	}
	return tags, nil
}
