package models

import (
	"time"
)

// Follower is a directed edge: FollowerID follows FollowedID.
// Each ordered pair exists at most once.
type Follower struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followed" json:"follower_id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follower_followed;index" json:"followed_id"`
	FollowedAt time.Time `gorm:"autoCreateTime" json:"followed_at"`

	// Relationships
	FollowerAuthor Author `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"follower"`
	FollowedAuthor Author `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"followed"`
}

// TableName specifies the table name for GORM
func (Follower) TableName() string {
	return "followers"
}
