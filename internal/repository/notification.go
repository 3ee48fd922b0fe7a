package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository defines the interface for notification data operations.
// Rows are inserted by the fan-out engine only; callers may only flip the read flag.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []*models.Notification) (int64, error)
	ExistingStoryRecipients(ctx context.Context, storyID uint, recipientIDs []uint) ([]uint, error)
	List(ctx context.Context, recipientID uint, filter models.NotificationFilter) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uint) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID uint, notifType *models.NotificationType) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(notification).Error; err != nil {
		return writeError(err, "Notification already exists")
	}
	return nil
}

// CreateBatch inserts all rows in one statement. Rows that collide with an
// existing story notification are skipped; the count of inserted rows is returned.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*models.Notification) (int64, error) {
	if len(notifications) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&notifications)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

// ExistingStoryRecipients returns which of recipientIDs already hold a story
// notification for storyID.
func (r *notificationRepository) ExistingStoryRecipients(ctx context.Context, storyID uint, recipientIDs []uint) ([]uint, error) {
	existing := []uint{}
	if len(recipientIDs) == 0 {
		return existing, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("notif_type = ? AND story_id = ? AND recipient_id IN ?", models.NotificationTypeStory, storyID, recipientIDs).
		Pluck("recipient_id", &existing).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return existing, nil
}

func (r *notificationRepository) List(ctx context.Context, recipientID uint, filter models.NotificationFilter) ([]*models.Notification, error) {
	var notifications []*models.Notification
	query := applyPage(r.db.WithContext(ctx), filter.Limit, filter.Offset).
		Preload("Sender").
		Preload("Story").
		Preload("Comment").
		Where("recipient_id = ?", recipientID)
	if filter.Type != nil {
		query = query.Where("notif_type = ?", *filter.Type)
	}
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	if err := query.Order("created_at desc").Order("id desc").Find(&notifications).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// MarkRead flags one notification as read. Another recipient's notification
// is reported as not found.
func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND recipient_id = ?", id, recipientID).First(&notification).Error; err != nil {
			return lookupError(err, "Notification", id)
		}
		if notification.IsRead {
			return nil
		}
		if err := tx.Model(&notification).Update("is_read", true).Error; err != nil {
			return models.NewInternalError(err)
		}
		notification.IsRead = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkAllRead flags the recipient's unread notifications, optionally only those
// of one type, and returns how many changed.
func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uint, notifType *models.NotificationType) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false)
	if notifType != nil {
		query = query.Where("notif_type = ?", *notifType)
	}
	result := query.Update("is_read", true)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
