package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func newTestServer(t *testing.T, flags string) (*Server, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	cfg := &config.Config{
		JWTSecret:            testSecret,
		Port:                 "0",
		AllowedOrigins:       "*",
		FeatureFlags:         flags,
		FanoutTimeoutSeconds: 5,
	}
	s, err := NewServerWithDeps(cfg, db, nil, nil)
	require.NoError(t, err)
	return s, db
}

func bearer(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

// call performs a request as userID (0 = anonymous) and returns status and body.
func call(t *testing.T, app *fiber.App, method, path string, body any, userID uint) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("Authorization", bearer(t, userID))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestHealthChecks(t *testing.T) {
	s, _ := newTestServer(t, "")
	app := s.App()

	status, _ := call(t, app, http.MethodGet, "/health/live", nil, 0)
	assert.Equal(t, http.StatusOK, status)

	status, body := call(t, app, http.MethodGet, "/health/ready", nil, 0)
	assert.Equal(t, http.StatusOK, status)
	ready := decode[map[string]any](t, body)
	checks := ready["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s, _ := newTestServer(t, "")
	app := s.App()

	status, body := call(t, app, http.MethodPost, "/api/stories", map[string]string{"title": "x"}, 0)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, models.CodeUnauthorized, decode[models.ErrorResponse](t, body).Code)

	status, _ = call(t, app, http.MethodGet, "/api/notifications", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestInvalidIDParam(t *testing.T) {
	s, _ := newTestServer(t, "")

	status, body := call(t, s.App(), http.MethodGet, "/api/stories/abc", nil, 0)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid ID", decode[models.ErrorResponse](t, body).Error)
}

func TestPublishFollowLikeOverHTTP(t *testing.T) {
	s, db := newTestServer(t, "")
	app := s.App()

	author := testutil.CreateAuthor(t, db, "author")
	follower := testutil.CreateAuthor(t, db, "follower")

	followPath := fmt.Sprintf("/api/authors/%d/follow", author.ID)
	status, _ := call(t, app, http.MethodPost, followPath, nil, follower.ID)
	require.Equal(t, http.StatusCreated, status)
	status, _ = call(t, app, http.MethodPost, followPath, nil, follower.ID)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = call(t, app, http.MethodPost, followPath, nil, author.ID)
	assert.Equal(t, http.StatusBadRequest, status, "self follow")

	status, body := call(t, app, http.MethodGet, followPath, nil, follower.ID)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[map[string]any](t, body)["following"].(bool))

	status, body = call(t, app, http.MethodPost, "/api/stories", map[string]any{
		"title":   "Night Train",
		"content": "All aboard.",
		"status":  "published",
	}, author.ID)
	require.Equal(t, http.StatusCreated, status, string(body))
	story := decode[models.Story](t, body)
	assert.Equal(t, author.ID, story.AuthorID)
	assert.Equal(t, "night-train", story.Slug)

	status, body = call(t, app, http.MethodGet, "/api/notifications", nil, follower.ID)
	require.Equal(t, http.StatusOK, status)
	list := decode[[]models.Notification](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationTypeStory, list[0].NotifType)
	assert.Equal(t, author.ID, list[0].Sender.ID)

	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/api/stories/%d/like", story.ID), nil, follower.ID)
	require.Equal(t, http.StatusCreated, status)
	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/api/stories/%d/like", story.ID), nil, follower.ID)
	assert.Equal(t, http.StatusConflict, status)

	status, body = call(t, app, http.MethodGet, fmt.Sprintf("/api/stories/%d/likes/count", story.ID), nil, 0)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decode[map[string]any](t, body)["count"])

	status, body = call(t, app, http.MethodGet, "/api/notifications/unread-count", nil, author.ID)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decode[map[string]any](t, body)["unread"])

	status, body = call(t, app, http.MethodPost, "/api/notifications/read-all", nil, author.ID)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decode[map[string]any](t, body)["updated"])

	status, body = call(t, app, http.MethodGet, "/api/notifications?is_read=no", nil, author.ID)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]models.Notification](t, body))

	// Another recipient's notification looks missing.
	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", list[0].ID), nil, author.ID)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", list[0].ID), nil, follower.ID)
	assert.Equal(t, http.StatusOK, status)

	status, body = call(t, app, http.MethodGet, "/api/stories/slug/night-train", nil, 0)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, story.ID, decode[models.Story](t, body).ID)
}

func TestStoryEditIsAuthorOnly(t *testing.T) {
	s, db := newTestServer(t, "")
	app := s.App()

	author := testutil.CreateAuthor(t, db, "author")
	other := testutil.CreateAuthor(t, db, "other")
	story := testutil.CreateStory(t, db, author.ID, models.StoryStatusDraft)
	path := fmt.Sprintf("/api/stories/%d", story.ID)

	status, _ := call(t, app, http.MethodPut, path, map[string]any{"title": "Mine"}, other.ID)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, http.MethodDelete, path, nil, other.ID)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := call(t, app, http.MethodPut, path, map[string]any{"status": "archived"}, author.ID)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.StoryStatusArchived, decode[models.Story](t, body).Status)

	status, _ = call(t, app, http.MethodDelete, path, nil, author.ID)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = call(t, app, http.MethodGet, path, nil, 0)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCommentThreadOverHTTP(t *testing.T) {
	s, db := newTestServer(t, "")
	app := s.App()

	author := testutil.CreateAuthor(t, db, "author")
	reader := testutil.CreateAuthor(t, db, "reader")
	story := testutil.CreateStory(t, db, author.ID, models.StoryStatusPublished)

	status, body := call(t, app, http.MethodPost, fmt.Sprintf("/api/stories/%d/comments", story.ID),
		map[string]any{"content": "First!"}, reader.ID)
	require.Equal(t, http.StatusCreated, status)
	top := decode[models.Comment](t, body)

	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/api/comments/%d/replies", top.ID),
		map[string]any{"content": "Welcome"}, author.ID)
	require.Equal(t, http.StatusCreated, status)

	status, body = call(t, app, http.MethodGet, fmt.Sprintf("/api/stories/%d/comments", story.ID), nil, 0)
	require.Equal(t, http.StatusOK, status)
	thread := decode[[]models.Comment](t, body)
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "Welcome", thread[0].Replies[0].Content)

	status, body = call(t, app, http.MethodGet, fmt.Sprintf("/api/stories/%d/comments/count", story.ID), nil, 0)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, decode[map[string]any](t, body)["count"])

	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/api/stories/%d/comments", story.ID),
		map[string]any{"content": ""}, reader.ID)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPrivateLibraryVisibility(t *testing.T) {
	s, db := newTestServer(t, "")
	app := s.App()

	owner := testutil.CreateAuthor(t, db, "owner")
	visitor := testutil.CreateAuthor(t, db, "visitor")
	story := testutil.CreateStory(t, db, owner.ID, models.StoryStatusPublished)

	status, body := call(t, app, http.MethodPost, "/api/libraries", map[string]any{"name": "Later"}, owner.ID)
	require.Equal(t, http.StatusCreated, status)
	library := decode[models.Library](t, body)
	assert.True(t, library.IsPrivate)

	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/api/libraries/%d/stories/%d", library.ID, story.ID), nil, owner.ID)
	require.Equal(t, http.StatusCreated, status)
	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/api/libraries/%d/stories/%d", library.ID, story.ID), nil, visitor.ID)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, http.MethodGet, fmt.Sprintf("/api/libraries/%d", library.ID), nil, 0)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, http.MethodGet, fmt.Sprintf("/api/libraries/%d/stories", library.ID), nil, visitor.ID)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = call(t, app, http.MethodGet, fmt.Sprintf("/api/libraries/%d/stories", library.ID), nil, owner.ID)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Story](t, body), 1)

	status, body = call(t, app, http.MethodGet, fmt.Sprintf("/api/authors/%d/libraries", owner.ID), nil, visitor.ID)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]models.Library](t, body))
}

func TestFeatureFlagsEndpoint(t *testing.T) {
	s, db := newTestServer(t, "follow_notifications=on")
	user := testutil.CreateAuthor(t, db, "user")

	status, body := call(t, s.App(), http.MethodGet, "/api/feature-flags", nil, user.ID)
	require.Equal(t, http.StatusOK, status)
	flags := decode[map[string]map[string]bool](t, body)
	assert.True(t, flags["evaluated"]["follow_notifications"])
}

func TestWebsocketRequiresUpgrade(t *testing.T) {
	s, db := newTestServer(t, "")
	user := testutil.CreateAuthor(t, db, "user")

	status, _ := call(t, s.App(), http.MethodGet, "/api/ws", nil, user.ID)
	assert.Equal(t, http.StatusUpgradeRequired, status)

	status, _ = call(t, s.App(), http.MethodGet, "/api/ws", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSwaggerDocServed(t *testing.T) {
	s, _ := newTestServer(t, "")
	app := s.App()

	status, body := call(t, app, http.MethodGet, "/api/swagger/doc.json", nil, 0)
	require.Equal(t, http.StatusOK, status)

	doc := decode[struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}](t, body)
	assert.Equal(t, "/api", doc.BasePath)
	assert.Contains(t, doc.Paths["/stories/{id}/like"], "post")
	assert.Contains(t, doc.Paths["/notifications/read-all"], "post")
	assert.Contains(t, doc.Paths["/libraries/{id}/stories/{storyId}"], "delete")
}
