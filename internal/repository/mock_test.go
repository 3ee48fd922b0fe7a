package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	return gormDB, mock
}

func TestStoryRepository_GetStatus(t *testing.T) {
	tests := []struct {
		name         string
		mockBehavior func(mock sqlmock.Sqlmock)
		expected     models.StoryStatus
		expectedCode string
	}{
		{
			name: "Success",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","status" FROM "stories" WHERE id = $1`)).
					WithArgs(7, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(7, "published"))
			},
			expected: models.StoryStatusPublished,
		},
		{
			name: "Not Found",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","status" FROM "stories"`)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))
			},
			expectedCode: models.CodeNotFound,
		},
		{
			name: "Store Failure",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","status" FROM "stories"`)).
					WillReturnError(errors.New("connection reset"))
			},
			expectedCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewStoryRepository(db)
			tt.mockBehavior(mock)

			status, err := repo.GetStatus(context.Background(), 7)
			if tt.expectedCode != "" {
				assert.True(t, models.HasCode(err, tt.expectedCode), "got %v", err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, status)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLikeRepository_Delete_NoRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE story_id = $1 AND user_id = $2`)).
		WithArgs(3, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 3, 4)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_CreateBatch_OnConflictDoNothing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	storyID := uint(9)
	batch := []*models.Notification{
		{RecipientID: 2, SenderID: 1, NotifType: models.NotificationTypeStory, StoryID: &storyID},
		{RecipientID: 3, SenderID: 1, NotifType: models.NotificationTypeStory, StoryID: &storyID},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications" .* ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_read"}).AddRow(11, false).AddRow(12, false))
	mock.ExpectCommit()

	n, err := repo.CreateBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_CreateBatch_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	n, err := repo.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowerRepository_FollowerIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "follower_id" FROM "followers" WHERE followed_id = $1 ORDER BY follower_id`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"follower_id"}).AddRow(6).AddRow(8))

	ids, err := repo.FollowerIDs(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []uint{6, 8}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
