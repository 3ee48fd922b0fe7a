package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryRepository_Integration(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewStoryRepository(db)
	tags := NewTagRepository(db)
	ctx := context.Background()

	author := testutil.CreateAuthor(t, db, "writer")
	other := testutil.CreateAuthor(t, db, "other")

	fiction := &models.Tag{Name: "Fiction", Slug: "fiction"}
	require.NoError(t, tags.Create(ctx, fiction))

	story := &models.Story{
		Title:    "First",
		Slug:     "first",
		Content:  "body",
		AuthorID: author.ID,
		Status:   models.StoryStatusDraft,
		Tags:     []models.Tag{*fiction},
	}
	require.NoError(t, repo.Create(ctx, story))
	testutil.CreateStory(t, db, other.ID, models.StoryStatusPublished)

	t.Run("Duplicate slug", func(t *testing.T) {
		err := repo.Create(ctx, &models.Story{Title: "Again", Slug: "first", Content: "x", AuthorID: author.ID})
		assert.True(t, models.HasCode(err, models.CodeAlreadyExists), "got %v", err)
	})

	t.Run("GetByID preloads author and tags", func(t *testing.T) {
		got, err := repo.GetByID(ctx, story.ID)
		require.NoError(t, err)
		assert.Equal(t, author.Username, got.Author.Username)
		require.Len(t, got.Tags, 1)
		assert.Equal(t, "fiction", got.Tags[0].Slug)
	})

	t.Run("GetStatus", func(t *testing.T) {
		status, err := repo.GetStatus(ctx, story.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StoryStatusDraft, status)

		_, err = repo.GetStatus(ctx, 9999)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("List filters", func(t *testing.T) {
		all, err := repo.List(ctx, models.StoryFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		byAuthor, err := repo.List(ctx, models.StoryFilter{AuthorID: author.ID})
		require.NoError(t, err)
		require.Len(t, byAuthor, 1)
		assert.Equal(t, story.ID, byAuthor[0].ID)

		published, err := repo.List(ctx, models.StoryFilter{Status: models.StoryStatusPublished})
		require.NoError(t, err)
		require.Len(t, published, 1)
		assert.Equal(t, other.ID, published[0].AuthorID)

		tagged, err := repo.List(ctx, models.StoryFilter{TagSlug: "fiction"})
		require.NoError(t, err)
		require.Len(t, tagged, 1)
		assert.Equal(t, story.ID, tagged[0].ID)
	})

	t.Run("Update keeps tags", func(t *testing.T) {
		story.Status = models.StoryStatusPublished
		require.NoError(t, repo.Update(ctx, story))

		status, err := repo.GetStatus(ctx, story.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StoryStatusPublished, status)

		got, err := repo.GetByID(ctx, story.ID)
		require.NoError(t, err)
		assert.Len(t, got.Tags, 1)
	})

	t.Run("SlugExists", func(t *testing.T) {
		exists, err := repo.SlugExists(ctx, "first", 0)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.SlugExists(ctx, "first", story.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete cascades", func(t *testing.T) {
		likes := NewLikeRepository(db)
		comments := NewCommentRepository(db)
		notifications := NewNotificationRepository(db)

		require.NoError(t, likes.Create(ctx, &models.Like{StoryID: story.ID, UserID: other.ID}))
		comment := &models.Comment{StoryID: story.ID, AuthorID: other.ID, Content: "nice"}
		require.NoError(t, comments.Create(ctx, comment))
		require.NoError(t, notifications.Create(ctx, &models.Notification{
			RecipientID: author.ID, SenderID: other.ID, NotifType: models.NotificationTypeComment,
			StoryID: &story.ID, CommentID: &comment.ID,
		}))

		require.NoError(t, repo.Delete(ctx, story.ID))

		_, err := repo.GetByID(ctx, story.ID)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
		n, err := likes.CountByStory(ctx, story.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
		n, err = comments.CountByStory(ctx, story.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Zero(t, testutil.CountNotifications(t, db, author.ID, ""))

		err = repo.Delete(ctx, story.ID)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})
}

func TestTagRepository_Integration(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	a := &models.Tag{Name: "Poetry", Slug: "poetry"}
	b := &models.Tag{Name: "Essay", Slug: "essay"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	err := repo.Create(ctx, &models.Tag{Name: "Poetry", Slug: "poetry-2"})
	assert.True(t, models.HasCode(err, models.CodeAlreadyExists))

	list, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Essay", list[0].Name)

	found, err := repo.GetByIDs(ctx, []uint{a.ID, 999})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	require.NoError(t, repo.Delete(ctx, b.ID))
	_, err = repo.GetByID(ctx, b.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestCommentRepository_DeleteRemovesReplies(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := testutil.CreateAuthor(t, db, "author")
	story := testutil.CreateStory(t, db, author.ID, models.StoryStatusPublished)

	root := &models.Comment{StoryID: story.ID, AuthorID: author.ID, Content: "root"}
	require.NoError(t, repo.Create(ctx, root))
	reply := &models.Comment{StoryID: story.ID, AuthorID: author.ID, Content: "reply", ParentID: &root.ID}
	require.NoError(t, repo.Create(ctx, reply))
	nested := &models.Comment{StoryID: story.ID, AuthorID: author.ID, Content: "nested", ParentID: &reply.ID}
	require.NoError(t, repo.Create(ctx, nested))
	sibling := &models.Comment{StoryID: story.ID, AuthorID: author.ID, Content: "sibling"}
	require.NoError(t, repo.Create(ctx, sibling))

	listed, err := repo.ListByStory(ctx, story.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, listed, 4)
	assert.Equal(t, root.ID, listed[0].ID)

	require.NoError(t, repo.Delete(ctx, root.ID))

	count, err := repo.CountByStory(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = repo.Delete(ctx, root.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestLikeRepository_Integration(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := testutil.CreateAuthor(t, db, "author")
	reader := testutil.CreateAuthor(t, db, "reader")
	story := testutil.CreateStory(t, db, author.ID, models.StoryStatusPublished)

	require.NoError(t, repo.Create(ctx, &models.Like{StoryID: story.ID, UserID: reader.ID}))
	err := repo.Create(ctx, &models.Like{StoryID: story.ID, UserID: reader.ID})
	assert.True(t, models.HasCode(err, models.CodeAlreadyExists))

	likes, err := repo.ListByStory(ctx, story.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, reader.Username, likes[0].User.Username)

	require.NoError(t, repo.Delete(ctx, story.ID, reader.ID))
	err = repo.Delete(ctx, story.ID, reader.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestFollowerRepository_Integration(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewFollowerRepository(db)
	ctx := context.Background()

	a := testutil.CreateAuthor(t, db, "a")
	b := testutil.CreateAuthor(t, db, "b")
	c := testutil.CreateAuthor(t, db, "c")

	require.NoError(t, repo.Create(ctx, &models.Follower{FollowerID: b.ID, FollowedID: a.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follower{FollowerID: c.ID, FollowedID: a.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follower{FollowerID: a.ID, FollowedID: c.ID}))

	err := repo.Create(ctx, &models.Follower{FollowerID: b.ID, FollowedID: a.ID})
	assert.True(t, models.HasCode(err, models.CodeAlreadyExists))

	followers, err := repo.Followers(ctx, a.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	for _, edge := range followers {
		assert.Equal(t, a.ID, edge.FollowedID)
		assert.NotEmpty(t, edge.FollowerAuthor.Username)
	}

	followings, err := repo.Followings(ctx, a.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, followings, 1)
	assert.Equal(t, c.Username, followings[0].FollowedAuthor.Username)

	ids, err := repo.FollowerIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{b.ID, c.ID}, ids)

	n, err := repo.CountFollowers(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = repo.CountFollowings(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Delete(ctx, b.ID, a.ID))
	exists, err := repo.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	err = repo.Delete(ctx, b.ID, a.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestLibraryRepository_Integration(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewLibraryRepository(db)
	ctx := context.Background()

	owner := testutil.CreateAuthor(t, db, "owner")
	story := testutil.CreateStory(t, db, owner.ID, models.StoryStatusPublished)

	private := &models.Library{UserID: owner.ID, Name: "Drafts", IsPrivate: true}
	public := &models.Library{UserID: owner.ID, Name: "Favourites", IsPrivate: false}
	require.NoError(t, repo.Create(ctx, private))
	require.NoError(t, repo.Create(ctx, public))

	all, err := repo.ListByOwner(ctx, owner.ID, true, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	visible, err := repo.ListByOwner(ctx, owner.ID, false, 0, 0)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, public.ID, visible[0].ID)

	require.NoError(t, repo.AddStory(ctx, &models.LibraryStory{LibraryID: public.ID, StoryID: story.ID}))
	err = repo.AddStory(ctx, &models.LibraryStory{LibraryID: public.ID, StoryID: story.ID})
	assert.True(t, models.HasCode(err, models.CodeAlreadyExists))

	stories, err := repo.ListStories(ctx, public.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, owner.Username, stories[0].Author.Username)

	require.NoError(t, repo.RemoveStory(ctx, public.ID, story.ID))
	err = repo.RemoveStory(ctx, public.ID, story.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	require.NoError(t, repo.Delete(ctx, private.ID))
	_, err = repo.GetByID(ctx, private.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestNotificationRepository_Integration(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	author := testutil.CreateAuthor(t, db, "author")
	f1 := testutil.CreateAuthor(t, db, "f1")
	f2 := testutil.CreateAuthor(t, db, "f2")
	story := testutil.CreateStory(t, db, author.ID, models.StoryStatusPublished)

	storyNotif := func(recipient uint) *models.Notification {
		return &models.Notification{RecipientID: recipient, SenderID: author.ID, NotifType: models.NotificationTypeStory, StoryID: &story.ID}
	}

	t.Run("CreateBatch skips duplicates", func(t *testing.T) {
		n, err := repo.CreateBatch(ctx, []*models.Notification{storyNotif(f1.ID), storyNotif(f2.ID)})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = repo.CreateBatch(ctx, []*models.Notification{storyNotif(f1.ID)})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, int64(1), testutil.CountNotifications(t, db, f1.ID, models.NotificationTypeStory))

		existing, err := repo.ExistingStoryRecipients(ctx, story.ID, []uint{f1.ID, author.ID})
		require.NoError(t, err)
		assert.Equal(t, []uint{f1.ID}, existing)
	})

	t.Run("Like notifications are not unique", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			require.NoError(t, repo.Create(ctx, &models.Notification{
				RecipientID: f1.ID, SenderID: f2.ID, NotifType: models.NotificationTypeLike, StoryID: &story.ID,
			}))
		}
		assert.Equal(t, int64(2), testutil.CountNotifications(t, db, f1.ID, models.NotificationTypeLike))
	})

	t.Run("List filters and ordering", func(t *testing.T) {
		all, err := repo.List(ctx, f1.ID, models.NotificationFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i := 1; i < len(all); i++ {
			assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
		}

		likeType := models.NotificationTypeLike
		likes, err := repo.List(ctx, f1.ID, models.NotificationFilter{Type: &likeType})
		require.NoError(t, err)
		assert.Len(t, likes, 2)
	})

	t.Run("MarkRead and MarkAllRead", func(t *testing.T) {
		unread, err := repo.CountUnread(ctx, f1.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), unread)

		all, err := repo.List(ctx, f1.ID, models.NotificationFilter{})
		require.NoError(t, err)

		_, err = repo.MarkRead(ctx, all[0].ID, f2.ID)
		assert.True(t, models.HasCode(err, models.CodeNotFound))

		marked, err := repo.MarkRead(ctx, all[0].ID, f1.ID)
		require.NoError(t, err)
		assert.True(t, marked.IsRead)

		read := true
		readOnes, err := repo.List(ctx, f1.ID, models.NotificationFilter{IsRead: &read})
		require.NoError(t, err)
		assert.Len(t, readOnes, 1)

		updated, err := repo.MarkAllRead(ctx, f1.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)

		unread, err = repo.CountUnread(ctx, f1.ID)
		require.NoError(t, err)
		assert.Zero(t, unread)

		unread, err = repo.CountUnread(ctx, f2.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), unread)
	})
}
