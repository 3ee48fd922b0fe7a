package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	FollowerCountKeyPrefix  = "author:%d:followers:count"
	FollowingCountKeyPrefix = "author:%d:followings:count"
	LikeCountKeyPrefix      = "story:%d:likes:count"
	CommentCountKeyPrefix   = "story:%d:comments:count"
)

const (
	CountTTL = 5 * time.Minute
)

func FollowerCountKey(authorID uint) string {
	return fmt.Sprintf(FollowerCountKeyPrefix, authorID)
}

func FollowingCountKey(authorID uint) string {
	return fmt.Sprintf(FollowingCountKeyPrefix, authorID)
}

func LikeCountKey(storyID uint) string {
	return fmt.Sprintf(LikeCountKeyPrefix, storyID)
}

func CommentCountKey(storyID uint) string {
	return fmt.Sprintf(CommentCountKeyPrefix, storyID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateFollowCounts drops both sides of a follow edge.
func InvalidateFollowCounts(ctx context.Context, followerID, followedID uint) {
	Invalidate(ctx, FollowingCountKey(followerID), FollowerCountKey(followedID))
}

func InvalidateLikeCount(ctx context.Context, storyID uint) {
	Invalidate(ctx, LikeCountKey(storyID))
}

func InvalidateCommentCount(ctx context.Context, storyID uint) {
	Invalidate(ctx, CommentCountKey(storyID))
}

// InvalidateStory drops every count cached for the story.
func InvalidateStory(ctx context.Context, storyID uint) {
	Invalidate(ctx, LikeCountKey(storyID), CommentCountKey(storyID))
}
