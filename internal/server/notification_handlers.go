package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications lists the caller's notifications, newest first.
// Query: type, is_read (true/1/yes, false/0/no), limit, offset.
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param type query string false "like, comment, follow or story"
// @Param is_read query string false "true/1/yes or false/0/no"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Notification
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)
	list, err := s.notificationService.List(c.UserContext(), service.ListNotificationsInput{
		RecipientID: currentUserID(c),
		Type:        c.Query("type"),
		IsRead:      c.Query("is_read"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(list)
}

// GetUnreadCount handles GET /api/notifications/unread-count
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{unread=int}
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications/unread-count [get]
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	count, err := s.notificationService.UnreadCount(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

// MarkNotificationRead flags one of the caller's notifications as read
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} models.Notification
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /notifications/{id}/read [post]
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	n, err := s.notificationService.MarkRead(c.UserContext(), currentUserID(c), notificationID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(n)
}

// MarkAllNotificationsRead flags the caller's unread notifications, optionally
// only those of ?type=, and reports how many changed.
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param type query string false "Only this notification type"
// @Success 200 {object} object{updated=int}
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications/read-all [post]
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	updated, err := s.notificationService.MarkAllRead(c.UserContext(), currentUserID(c), c.Query("type"))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}
