// Package models contains the persisted records of the publishing domain.
package models

import (
	"time"
)

// Author is a registered user who can write stories, follow others and curate libraries.
type Author struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	Bio          string    `gorm:"type:text" json:"bio"`
	ProfileImage string    `json:"profile_image"`
	Gmail        string    `json:"gmail,omitempty"`
	FacebookURL  string    `json:"facebook_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Author) TableName() string {
	return "authors"
}
