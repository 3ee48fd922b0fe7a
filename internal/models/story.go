package models

import (
	"time"
)

// StoryStatus is the publication state of a story.
type StoryStatus string

const (
	// StoryStatusDraft is the initial state of a story.
	StoryStatusDraft StoryStatus = "draft"
	// StoryStatusPublished makes the story visible and triggers follower notifications on entry.
	StoryStatusPublished StoryStatus = "published"
	// StoryStatusArchived hides a story without deleting it.
	StoryStatusArchived StoryStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s StoryStatus) Valid() bool {
	switch s {
	case StoryStatusDraft, StoryStatusPublished, StoryStatusArchived:
		return true
	}
	return false
}

// Story is a piece of writing owned by an author.
// Any status can move to any other status.
type Story struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Title      string      `gorm:"size:255;not null" json:"title"`
	Slug       string      `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Content    string      `gorm:"type:text;not null" json:"content"`
	AuthorID   uint        `gorm:"not null;index" json:"author_id"`
	Author     Author      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CoverImage string      `json:"cover_image,omitempty"`
	Status     StoryStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	ReadTime   *int        `json:"read_time,omitempty"`
	Tags       []Tag       `gorm:"many2many:story_tags;" json:"tags"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Story) TableName() string {
	return "stories"
}

// IsPublished reports whether the story is currently published.
func (s *Story) IsPublished() bool {
	return s.Status == StoryStatusPublished
}

// StoryFilter narrows a story listing. Zero values are not applied.
type StoryFilter struct {
	AuthorID uint
	Status   StoryStatus
	TagSlug  string
	Limit    int
	Offset   int
}
