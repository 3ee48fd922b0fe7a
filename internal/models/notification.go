package models

import (
	"time"
)

// NotificationType identifies the event that produced a notification.
type NotificationType string

const (
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeFollow  NotificationType = "follow"
	NotificationTypeStory   NotificationType = "story"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeLike, NotificationTypeComment, NotificationTypeFollow, NotificationTypeStory:
		return true
	}
	return false
}

// Notification tells a recipient that something happened to their content or network.
// Rows are only written by the fan-out engine; afterwards only IsRead changes.
//
// A story notification is unique per (recipient, story) so a repeated publish
// trigger cannot notify a follower twice. Like and comment notifications are
// distinct events and carry no such constraint.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RecipientID uint             `gorm:"not null;index:idx_notifications_recipient_created,priority:1;uniqueIndex:idx_story_notification,where:notif_type = 'story'" json:"recipient_id"`
	SenderID    uint             `gorm:"not null" json:"sender_id"`
	NotifType   NotificationType `gorm:"column:notif_type;type:varchar(20);not null" json:"notif_type"`
	StoryID     *uint            `gorm:"uniqueIndex:idx_story_notification,where:notif_type = 'story'" json:"story_id,omitempty"`
	CommentID   *uint            `json:"comment_id,omitempty"`
	CreatedAt   time.Time        `gorm:"index:idx_notifications_recipient_created,priority:2" json:"created_at"`
	IsRead      bool             `gorm:"not null;default:false" json:"is_read"`

	// Relationships
	Recipient *Author  `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	Sender    Author   `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender"`
	Story     *Story   `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE" json:"story,omitempty"`
	Comment   *Comment `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"comment,omitempty"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NotificationFilter narrows a recipient's notification listing.
// Nil fields are not applied.
type NotificationFilter struct {
	Type   *NotificationType
	IsRead *bool
	Limit  int
	Offset int
}
