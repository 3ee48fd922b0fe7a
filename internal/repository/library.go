package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LibraryRepository defines the interface for library and membership operations
type LibraryRepository interface {
	Create(ctx context.Context, library *models.Library) error
	GetByID(ctx context.Context, id uint) (*models.Library, error)
	ListByOwner(ctx context.Context, ownerID uint, includePrivate bool, limit, offset int) ([]*models.Library, error)
	Update(ctx context.Context, library *models.Library) error
	Delete(ctx context.Context, id uint) error
	AddStory(ctx context.Context, entry *models.LibraryStory) error
	RemoveStory(ctx context.Context, libraryID, storyID uint) error
	ListStories(ctx context.Context, libraryID uint, limit, offset int) ([]*models.Story, error)
}

type libraryRepository struct {
	db *gorm.DB
}

// NewLibraryRepository creates a new library repository
func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

func (r *libraryRepository) Create(ctx context.Context, library *models.Library) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(library).Error; err != nil {
		return writeError(err, "Library already exists")
	}
	return nil
}

func (r *libraryRepository) GetByID(ctx context.Context, id uint) (*models.Library, error) {
	var library models.Library
	if err := r.db.WithContext(ctx).Preload("Owner").First(&library, id).Error; err != nil {
		return nil, lookupError(err, "Library", id)
	}
	return &library, nil
}

func (r *libraryRepository) ListByOwner(ctx context.Context, ownerID uint, includePrivate bool, limit, offset int) ([]*models.Library, error) {
	var libraries []*models.Library
	query := applyPage(r.db.WithContext(ctx), limit, offset).
		Preload("Owner").
		Where("user_id = ?", ownerID)
	if !includePrivate {
		query = query.Where("is_private = ?", false)
	}
	if err := query.Order("created_at desc").Order("id desc").Find(&libraries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return libraries, nil
}

func (r *libraryRepository) Update(ctx context.Context, library *models.Library) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(library).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *libraryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("library_id = ?", id).Delete(&models.LibraryStory{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		result := tx.Delete(&models.Library{}, id)
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Library", id)
		}
		return nil
	})
}

func (r *libraryRepository) AddStory(ctx context.Context, entry *models.LibraryStory) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error; err != nil {
		return writeError(err, "This story is already in the library")
	}
	return nil
}

func (r *libraryRepository) RemoveStory(ctx context.Context, libraryID, storyID uint) error {
	result := r.db.WithContext(ctx).
		Where("library_id = ? AND story_id = ?", libraryID, storyID).
		Delete(&models.LibraryStory{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Story in library", storyID)
	}
	return nil
}

// ListStories returns the library's stories, most recently added first.
func (r *libraryRepository) ListStories(ctx context.Context, libraryID uint, limit, offset int) ([]*models.Story, error) {
	var stories []*models.Story
	err := applyPage(r.db.WithContext(ctx), limit, offset).
		Preload("Author").
		Preload("Tags").
		Joins("JOIN library_stories ON library_stories.story_id = stories.id").
		Where("library_stories.library_id = ?", libraryID).
		Order("library_stories.added_at desc").
		Order("library_stories.id desc").
		Find(&stories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}
