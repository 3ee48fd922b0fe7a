package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type TagService struct {
	tags repository.TagRepository
}

type TagInput struct {
	Name string
	Slug string
}

func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

func (s *TagService) CreateTag(ctx context.Context, in TagInput) (*models.Tag, error) {
	tag := &models.Tag{}
	if err := applyTagInput(tag, in); err != nil {
		return nil, err
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) UpdateTag(ctx context.Context, id uint, in TagInput) (*models.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyTagInput(tag, in); err != nil {
		return nil, err
	}
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) DeleteTag(ctx context.Context, id uint) error {
	return s.tags.Delete(ctx, id)
}

func (s *TagService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	return s.tags.GetByID(ctx, id)
}

func (s *TagService) ListTags(ctx context.Context, limit, offset int) ([]models.Tag, error) {
	return s.tags.List(ctx, limit, offset)
}

func applyTagInput(tag *models.Tag, in TagInput) error {
	if err := validation.ValidateTagName(in.Name); err != nil {
		return invalid(err)
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = validation.Slugify(in.Name)
	} else if err := validation.ValidateSlug(slug); err != nil {
		return invalid(err)
	}
	tag.Name = strings.TrimSpace(in.Name)
	tag.Slug = slug
	return nil
}
