// Package service holds the business logic of the publishing domain.
package service

import (
	"context"
	"log/slog"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
)

// Transition is the outcome of comparing a story's persisted status with the
// status about to be written.
type Transition struct {
	BecomesPublished bool
}

// PublishTransition reports whether moving from prev to next enters the
// published state. A nil prev means the story does not exist yet.
func PublishTransition(prev *models.StoryStatus, next models.StoryStatus) bool {
	if next != models.StoryStatusPublished {
		return false
	}
	return prev == nil || *prev != models.StoryStatusPublished
}

// StatusReader loads the persisted status of a story.
type StatusReader interface {
	GetStatus(ctx context.Context, id uint) (models.StoryStatus, error)
}

// TransitionDetector reads a story's pre-image before a write.
type TransitionDetector struct {
	stories StatusReader
}

// NewTransitionDetector returns a detector reading through stories.
func NewTransitionDetector(stories StatusReader) *TransitionDetector {
	return &TransitionDetector{stories: stories}
}

// Detect must run before the write is persisted. storyID is zero for a story
// that is being created. Detection never fails the write: when the previous
// state cannot be read the result is "no transition".
func (d *TransitionDetector) Detect(ctx context.Context, storyID uint, next models.StoryStatus) Transition {
	if next != models.StoryStatusPublished {
		return Transition{}
	}
	if storyID == 0 {
		return Transition{BecomesPublished: PublishTransition(nil, next)}
	}

	prev, err := d.stories.GetStatus(ctx, storyID)
	switch {
	case err == nil:
		return Transition{BecomesPublished: PublishTransition(&prev, next)}
	case models.HasCode(err, models.CodeNotFound):
		// Deleted concurrently; judge the write on its own.
		return Transition{BecomesPublished: PublishTransition(nil, next)}
	default:
		detectErr := models.NewTransitionDetectionError(storyID, err)
		observability.TransitionDetectionFailures.Inc()
		middleware.Logger.ErrorContext(ctx, "publish transition detection failed",
			slog.String("code", detectErr.Code),
			slog.Uint64("story_id", uint64(storyID)),
			slog.String("error", detectErr.Error()),
		)
		return Transition{}
	}
}
