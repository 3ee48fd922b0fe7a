package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, storyID, userID uint) error
	ListByStory(ctx context.Context, storyID uint, limit, offset int) ([]*models.Like, error)
	CountByStory(ctx context.Context, storyID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts the like; a second like by the same user on the same story
// is rejected by the unique index.
func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(like).Error; err != nil {
		return writeError(err, "Already liked")
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, storyID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("story_id = ? AND user_id = ?", storyID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Like for story", storyID)
	}
	return nil
}

func (r *likeRepository) ListByStory(ctx context.Context, storyID uint, limit, offset int) ([]*models.Like, error) {
	var likes []*models.Like
	err := applyPage(r.db.WithContext(ctx), limit, offset).
		Preload("User").
		Where("story_id = ?", storyID).
		Order("created_at desc").
		Find(&likes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) CountByStory(ctx context.Context, storyID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("story_id = ?", storyID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
