package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowerRepository defines the interface for follow-edge operations
type FollowerRepository interface {
	Create(ctx context.Context, edge *models.Follower) error
	Delete(ctx context.Context, followerID, followedID uint) error
	Exists(ctx context.Context, followerID, followedID uint) (bool, error)
	Followers(ctx context.Context, userID uint, limit, offset int) ([]*models.Follower, error)
	Followings(ctx context.Context, userID uint, limit, offset int) ([]*models.Follower, error)
	FollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowings(ctx context.Context, userID uint) (int64, error)
}

type followerRepository struct {
	db *gorm.DB
}

// NewFollowerRepository creates a new follower repository
func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db}
}

func (r *followerRepository) Create(ctx context.Context, edge *models.Follower) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(edge).Error; err != nil {
		return writeError(err, "You are already following this user")
	}
	return nil
}

func (r *followerRepository) Delete(ctx context.Context, followerID, followedID uint) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follower{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Follow of user", followedID)
	}
	return nil
}

func (r *followerRepository) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follower{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Followers returns the edges pointing at userID with the follower preloaded.
func (r *followerRepository) Followers(ctx context.Context, userID uint, limit, offset int) ([]*models.Follower, error) {
	var edges []*models.Follower
	err := applyPage(r.db.WithContext(ctx), limit, offset).
		Preload("FollowerAuthor").
		Preload("FollowedAuthor").
		Where("followed_id = ?", userID).
		Order("followed_at desc").
		Order("id desc").
		Find(&edges).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return edges, nil
}

// Followings returns the edges leaving userID with the followed author preloaded.
func (r *followerRepository) Followings(ctx context.Context, userID uint, limit, offset int) ([]*models.Follower, error) {
	var edges []*models.Follower
	err := applyPage(r.db.WithContext(ctx), limit, offset).
		Preload("FollowerAuthor").
		Preload("FollowedAuthor").
		Where("follower_id = ?", userID).
		Order("followed_at desc").
		Order("id desc").
		Find(&edges).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return edges, nil
}

// FollowerIDs returns the ids of every author following userID.
func (r *followerRepository) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follower{}).
		Where("followed_id = ?", userID).
		Order("follower_id").
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followerRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follower{}).Where("followed_id = ?", userID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followerRepository) CountFollowings(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follower{}).Where("follower_id = ?", userID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
