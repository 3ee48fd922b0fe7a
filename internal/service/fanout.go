package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"inkwell/internal/events"
	"inkwell/internal/featureflags"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Fan-out triggers, used as metric and log labels.
const (
	TriggerStory   = "story_published"
	TriggerLike    = "like_created"
	TriggerComment = "comment_created"
	TriggerFollow  = "follow_created"
)

// RealtimePublisher pushes a payload to a recipient's live connections.
type RealtimePublisher interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// realtimeMessage is the frame pushed to connected clients.
type realtimeMessage struct {
	Type    string               `json:"type"`
	Payload *models.Notification `json:"payload"`
}

// Fanout turns committed social actions into notification rows.
// Each trigger is called once, after the triggering write has committed.
type Fanout struct {
	followers     repository.FollowerRepository
	notifications repository.NotificationRepository
	realtime      RealtimePublisher
	bus           events.Publisher
	flags         *featureflags.Manager
	timeout       time.Duration
}

// NewFanout wires the engine. realtime, bus and flags may be nil.
func NewFanout(
	followers repository.FollowerRepository,
	notifications repository.NotificationRepository,
	realtime RealtimePublisher,
	bus events.Publisher,
	flags *featureflags.Manager,
	timeout time.Duration,
) *Fanout {
	if bus == nil {
		bus = events.NopPublisher{}
	}
	return &Fanout{
		followers:     followers,
		notifications: notifications,
		realtime:      realtime,
		bus:           bus,
		flags:         flags,
		timeout:       timeout,
	}
}

// AfterStoryWrite notifies the author's followers when the write entered the
// published state. Failures are logged and swallowed.
func (f *Fanout) AfterStoryWrite(ctx context.Context, story *models.Story, tr Transition) {
	if !tr.BecomesPublished {
		return
	}
	f.run(ctx, TriggerStory, attribute.Int64("story_id", int64(story.ID)), func(ctx context.Context) error {
		_, err := f.StoryPublished(ctx, story)
		return err
	})
}

// AfterLike notifies the story author of a new like. Failures are logged and swallowed.
func (f *Fanout) AfterLike(ctx context.Context, like *models.Like, story *models.Story) {
	f.run(ctx, TriggerLike, attribute.Int64("story_id", int64(story.ID)), func(ctx context.Context) error {
		_, err := f.LikeCreated(ctx, like, story)
		return err
	})
}

// AfterComment notifies the story author of a new comment or reply.
// Failures are logged and swallowed.
func (f *Fanout) AfterComment(ctx context.Context, comment *models.Comment, story *models.Story) {
	f.run(ctx, TriggerComment, attribute.Int64("comment_id", int64(comment.ID)), func(ctx context.Context) error {
		_, err := f.CommentCreated(ctx, comment, story)
		return err
	})
}

// AfterFollow notifies the followed author when follow notifications are enabled.
// Failures are logged and swallowed.
func (f *Fanout) AfterFollow(ctx context.Context, edge *models.Follower) {
	f.run(ctx, TriggerFollow, attribute.Int64("followed_id", int64(edge.FollowedID)), func(ctx context.Context) error {
		_, err := f.FollowCreated(ctx, edge)
		return err
	})
}

// run detaches the fan-out from request cancellation so a client hanging up
// after the commit cannot cut it short, bounded by the configured timeout.
func (f *Fanout) run(ctx context.Context, trigger string, attr attribute.KeyValue, fn func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	span, ctx := observability.NewSpan(ctx, "fanout."+trigger, attr)
	defer span.End()
	defer observability.TrackFanout(trigger)()

	if err := fn(ctx); err != nil {
		span.SetError(err)
		observability.FanoutFailures.WithLabelValues(trigger).Inc()
		middleware.Logger.ErrorContext(ctx, "notification fan-out failed",
			slog.String("trigger", trigger),
			slog.String("error", err.Error()),
		)
	}
}

// StoryPublished writes one story notification per follower of the author in
// a single batch and returns how many rows were inserted. Followers already
// notified about this story are skipped; the store's unique index catches
// concurrent duplicates.
func (f *Fanout) StoryPublished(ctx context.Context, story *models.Story) (int64, error) {
	inserted, err := f.notifyFollowers(ctx, story)
	if err != nil {
		return 0, err
	}
	f.emit(ctx, events.TypeStoryPublished, story.ID, map[string]any{
		"story_id":  story.ID,
		"author_id": story.AuthorID,
		"notified":  inserted,
	})
	return inserted, nil
}

func (f *Fanout) notifyFollowers(ctx context.Context, story *models.Story) (int64, error) {
	followerIDs, err := f.followers.FollowerIDs(ctx, story.AuthorID)
	if err != nil {
		return 0, err
	}
	if len(followerIDs) == 0 {
		return 0, nil
	}

	existing, err := f.notifications.ExistingStoryRecipients(ctx, story.ID, followerIDs)
	if err != nil {
		return 0, err
	}
	skip := make(map[uint]struct{}, len(existing)+1)
	for _, id := range existing {
		skip[id] = struct{}{}
	}
	skip[story.AuthorID] = struct{}{}

	storyID := story.ID
	batch := make([]*models.Notification, 0, len(followerIDs))
	for _, followerID := range followerIDs {
		if _, ok := skip[followerID]; ok {
			continue
		}
		skip[followerID] = struct{}{}
		batch = append(batch, &models.Notification{
			RecipientID: followerID,
			SenderID:    story.AuthorID,
			NotifType:   models.NotificationTypeStory,
			StoryID:     &storyID,
		})
	}
	if len(batch) == 0 {
		return 0, nil
	}

	inserted, err := f.notifications.CreateBatch(ctx, batch)
	if err != nil {
		return 0, err
	}
	observability.NotificationsCreated.WithLabelValues(string(models.NotificationTypeStory)).Add(float64(inserted))

	// A short count means the unique index dropped rows raced in by another
	// publish. Which elements survived is unknown, so none are pushed.
	if inserted != int64(len(batch)) {
		middleware.Logger.WarnContext(ctx, "story notification batch partially inserted, skipping realtime delivery",
			slog.Uint64("story_id", uint64(story.ID)),
			slog.Int("batch", len(batch)),
			slog.Int64("inserted", inserted),
		)
		return inserted, nil
	}
	for _, n := range batch {
		f.deliver(ctx, n)
		f.emit(ctx, events.TypeNotificationCreated, n.RecipientID, n)
	}
	return inserted, nil
}

// LikeCreated notifies the story author of a like. Reports whether a row was written.
func (f *Fanout) LikeCreated(ctx context.Context, like *models.Like, story *models.Story) (bool, error) {
	if like.UserID == story.AuthorID {
		return false, nil
	}
	storyID := story.ID
	return f.single(ctx, &models.Notification{
		RecipientID: story.AuthorID,
		SenderID:    like.UserID,
		NotifType:   models.NotificationTypeLike,
		StoryID:     &storyID,
	})
}

// CommentCreated notifies the story author of a comment. Replies go to the
// story author too, never to the parent comment's author.
func (f *Fanout) CommentCreated(ctx context.Context, comment *models.Comment, story *models.Story) (bool, error) {
	if comment.AuthorID == story.AuthorID {
		return false, nil
	}
	storyID, commentID := story.ID, comment.ID
	return f.single(ctx, &models.Notification{
		RecipientID: story.AuthorID,
		SenderID:    comment.AuthorID,
		NotifType:   models.NotificationTypeComment,
		StoryID:     &storyID,
		CommentID:   &commentID,
	})
}

// FollowCreated notifies the followed author, gated by the follow_notifications flag.
func (f *Fanout) FollowCreated(ctx context.Context, edge *models.Follower) (bool, error) {
	if edge.FollowerID == edge.FollowedID {
		return false, nil
	}
	if !f.flags.Enabled(featureflags.FollowNotifications, edge.FollowedID) {
		return false, nil
	}
	return f.single(ctx, &models.Notification{
		RecipientID: edge.FollowedID,
		SenderID:    edge.FollowerID,
		NotifType:   models.NotificationTypeFollow,
	})
}

func (f *Fanout) single(ctx context.Context, n *models.Notification) (bool, error) {
	if err := f.notifications.Create(ctx, n); err != nil {
		return false, err
	}
	observability.NotificationsCreated.WithLabelValues(string(n.NotifType)).Inc()
	f.deliver(ctx, n)
	f.emit(ctx, events.TypeNotificationCreated, n.RecipientID, n)
	return true, nil
}

// deliver pushes the notification to the recipient's live sockets. Best effort.
func (f *Fanout) deliver(ctx context.Context, n *models.Notification) {
	if f.realtime == nil {
		return
	}
	payload, err := json.Marshal(realtimeMessage{Type: "notification", Payload: n})
	if err != nil {
		return
	}
	if err := f.realtime.PublishUser(ctx, n.RecipientID, string(payload)); err != nil {
		middleware.Logger.WarnContext(ctx, "realtime notification publish failed",
			slog.Uint64("recipient_id", uint64(n.RecipientID)),
			slog.String("error", err.Error()),
		)
	}
}

// emit hands a domain event to the bus. Best effort.
func (f *Fanout) emit(ctx context.Context, eventType string, key uint, payload any) {
	evt, err := events.New(eventType, payload)
	if err == nil {
		err = f.bus.Publish(ctx, formatKey(key), evt)
	}
	if err != nil {
		middleware.Logger.WarnContext(ctx, "domain event publish failed",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
