package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryRepository defines the interface for story data operations
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id uint) (*models.Story, error)
	GetBySlug(ctx context.Context, slug string) (*models.Story, error)
	GetStatus(ctx context.Context, id uint) (models.StoryStatus, error)
	List(ctx context.Context, filter models.StoryFilter) ([]*models.Story, error)
	Update(ctx context.Context, story *models.Story) error
	ReplaceTags(ctx context.Context, story *models.Story, tags []models.Tag) error
	Delete(ctx context.Context, id uint) error
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	// Tags are existing rows; only the join table is written.
	if err := r.db.WithContext(ctx).Omit("Author", "Tags.*").Create(story).Error; err != nil {
		return writeError(err, "A story with this slug already exists")
	}
	return nil
}

func (r *storyRepository) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		First(&story, id).Error
	if err != nil {
		return nil, lookupError(err, "Story", id)
	}
	return &story, nil
}

func (r *storyRepository) GetBySlug(ctx context.Context, slug string) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&story).Error
	if err != nil {
		return nil, lookupError(err, "Story", slug)
	}
	return &story, nil
}

// GetStatus reads only the persisted status, the pre-image used for transition detection.
func (r *storyRepository) GetStatus(ctx context.Context, id uint) (models.StoryStatus, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Model(&models.Story{}).
		Select("id", "status").
		Where("id = ?", id).
		Take(&story).Error
	if err != nil {
		return "", lookupError(err, "Story", id)
	}
	return story.Status, nil
}

func (r *storyRepository) List(ctx context.Context, filter models.StoryFilter) ([]*models.Story, error) {
	var stories []*models.Story
	query := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags")

	if filter.AuthorID != 0 {
		query = query.Where("stories.author_id = ?", filter.AuthorID)
	}
	if filter.Status != "" {
		query = query.Where("stories.status = ?", filter.Status)
	}
	if filter.TagSlug != "" {
		query = query.
			Joins("JOIN story_tags ON story_tags.story_id = stories.id").
			Joins("JOIN tags ON tags.id = story_tags.tag_id").
			Where("tags.slug = ?", filter.TagSlug)
	}

	err := applyPage(query, filter.Limit, filter.Offset).
		Order("stories.created_at DESC").
		Order("stories.id DESC").
		Find(&stories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

func (r *storyRepository) Update(ctx context.Context, story *models.Story) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(story).Error
	if err != nil {
		return writeError(err, "A story with this slug already exists")
	}
	return nil
}

func (r *storyRepository) ReplaceTags(ctx context.Context, story *models.Story, tags []models.Tag) error {
	assoc := r.db.WithContext(ctx).Model(story).Association("Tags")
	var err error
	if len(tags) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(tags)
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the story together with everything that references it.
func (r *storyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("story_id = ?", id)

		if err := tx.Where("story_id = ? OR comment_id IN (?)", id, commentIDs).
			Delete(&models.Notification{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("story_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("story_id = ?", id).Delete(&models.LibraryStory{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("story_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Exec("DELETE FROM story_tags WHERE story_id = ?", id).Error; err != nil {
			return models.NewInternalError(err)
		}

		result := tx.Delete(&models.Story{}, id)
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Story", id)
		}
		return nil
	})
}

func (r *storyRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Story{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
