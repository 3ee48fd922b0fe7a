// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Uint64

// NewSQLiteDB opens a migrated in-memory SQLite database private to the test.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// CreateAuthor persists an author with a unique username.
func CreateAuthor(t *testing.T, db *gorm.DB, name string) *models.Author {
	t.Helper()
	n := seq.Add(1)
	author := &models.Author{
		Username: fmt.Sprintf("%s_%d", name, n),
		Email:    fmt.Sprintf("%s_%d@example.com", name, n),
		Password: "x",
	}
	if err := db.Create(author).Error; err != nil {
		t.Fatalf("create author: %v", err)
	}
	return author
}

// CreateStory persists a story for the author with the given status.
func CreateStory(t *testing.T, db *gorm.DB, authorID uint, status models.StoryStatus) *models.Story {
	t.Helper()
	n := seq.Add(1)
	story := &models.Story{
		Title:    fmt.Sprintf("Story %d", n),
		Slug:     fmt.Sprintf("story-%d", n),
		Content:  "Once upon a time.",
		AuthorID: authorID,
		Status:   status,
	}
	if err := db.Create(story).Error; err != nil {
		t.Fatalf("create story: %v", err)
	}
	return story
}

// Follow persists a follower edge.
func Follow(t *testing.T, db *gorm.DB, followerID, followedID uint) {
	t.Helper()
	if err := db.Create(&models.Follower{FollowerID: followerID, FollowedID: followedID}).Error; err != nil {
		t.Fatalf("create follower edge: %v", err)
	}
}

// CountNotifications counts notifications matching the optional recipient and type.
func CountNotifications(t *testing.T, db *gorm.DB, recipientID uint, notifType models.NotificationType) int64 {
	t.Helper()
	q := db.Model(&models.Notification{})
	if recipientID != 0 {
		q = q.Where("recipient_id = ?", recipientID)
	}
	if notifType != "" {
		q = q.Where("notif_type = ?", notifType)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return n
}
