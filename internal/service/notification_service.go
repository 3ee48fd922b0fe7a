package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// NotificationService is the read side of notifications. Rows are only
// created by Fanout.
type NotificationService struct {
	notifications repository.NotificationRepository
}

type ListNotificationsInput struct {
	RecipientID uint
	Type        string
	IsRead      string
	Limit       int
	Offset      int
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, in ListNotificationsInput) ([]*models.Notification, error) {
	filter := models.NotificationFilter{
		Type:   parseNotificationType(in.Type),
		IsRead: ParseReadFlag(in.IsRead),
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	return s.notifications.List(ctx, in.RecipientID, filter)
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.notifications.CountUnread(ctx, recipientID)
}

// MarkRead flags one of the recipient's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID uint) (*models.Notification, error) {
	return s.notifications.MarkRead(ctx, notificationID, recipientID)
}

// MarkAllRead flags the recipient's unread notifications, optionally of one
// type, and returns the number updated.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint, notifType string) (int64, error) {
	return s.notifications.MarkAllRead(ctx, recipientID, parseNotificationType(notifType))
}

// ParseReadFlag maps true/1/yes and false/0/no, case-insensitively, to a filter
// value. Anything else means "no filter".
func ParseReadFlag(raw string) *bool {
	var v bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		v = true
	case "false", "0", "no":
		v = false
	default:
		return nil
	}
	return &v
}

// parseNotificationType passes any non-empty value through; an unknown type
// simply matches nothing.
func parseNotificationType(raw string) *models.NotificationType {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t := models.NotificationType(raw)
	return &t
}
