package models

import (
	"time"
)

// Like represents a user's like on a story.
// The combination of StoryID and UserID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoryID   uint      `gorm:"not null;uniqueIndex:idx_like_story_user" json:"story_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_story_user" json:"user_id"`
	User      Author    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Story     *Story    `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}
