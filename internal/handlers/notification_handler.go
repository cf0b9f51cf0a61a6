package handlers

import (
	"net/http"
	"strconv"

	"github.com/JohnnyRuss/academind-back/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications/:userId", h.GetNotifications)
	g.GET("/notifications/:userId/unseen", h.GetUnseenNotifications)
	g.PATCH("/notifications/:userId/seen", h.MarkAllAsSeen)
	g.PATCH("/notifications/:notifyId", h.MarkAsRead)
	g.DELETE("/notifications/:notifyId", h.DeleteNotification)
	// older clients address single notifications under /notify
	g.PATCH("/notifications/notify/:notifyId", h.MarkAsRead)
	g.DELETE("/notifications/notify/:notifyId", h.DeleteNotification)
	g.PATCH("/notifications", h.MarkAllAsRead)
	g.DELETE("/notifications", h.DeleteAllNotifications)
}

// GetNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	notifications, err := h.notificationService.GetAll(c.Request().Context(), c.Param("userId"), currentUserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) GetUnseenNotifications(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	unseen, err := h.notificationService.GetUnseen(c.Request().Context(), c.Param("userId"), currentUserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unseen)
}

func (h *NotificationHandler) MarkAllAsSeen(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	n, err := h.notificationService.MarkAllAsSeen(c.Request().Context(), c.Param("userId"), currentUserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	notifID, err := notificationID(c)
	if err != nil {
		return err
	}

	notification, err := h.notificationService.MarkAsRead(c.Request().Context(), notifID, currentUserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notification)
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	n, err := h.notificationService.MarkAllAsRead(c.Request().Context(), currentUserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	notifID, err := notificationID(c)
	if err != nil {
		return err
	}

	if err := h.notificationService.Delete(c.Request().Context(), notifID, currentUserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) DeleteAllNotifications(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	n, err := h.notificationService.DeleteAll(c.Request().Context(), currentUserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}

func notificationID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("notifyId"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}
	return uint(id), nil
}
