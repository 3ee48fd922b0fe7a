package models

import (
	"time"
)

// Library is an author's named collection of stories.
type Library struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Owner       Author    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"owner"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsPrivate   bool      `gorm:"not null" json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Library) TableName() string {
	return "libraries"
}

// VisibleTo reports whether the requester may see the library and its stories.
func (l *Library) VisibleTo(requesterID uint) bool {
	return !l.IsPrivate || l.UserID == requesterID
}

// LibraryStory is the membership edge between a library and a story.
type LibraryStory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LibraryID uint      `gorm:"not null;uniqueIndex:idx_library_story" json:"library_id"`
	StoryID   uint      `gorm:"not null;uniqueIndex:idx_library_story" json:"story_id"`
	Story     Story     `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE" json:"story"`
	Library   *Library  `gorm:"foreignKey:LibraryID;constraint:OnDelete:CASCADE" json:"-"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// TableName specifies the table name for GORM
func (LibraryStory) TableName() string {
	return "library_stories"
}
