package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prajwal-kadam12/reqgen/internal/api/middleware"
	"github.com/prajwal-kadam12/reqgen/internal/db/models"
	"github.com/prajwal-kadam12/reqgen/internal/store"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notifications store.NotificationStore
	logger        *zap.Logger
}

func NewNotificationHandler(notifications store.NotificationStore, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger.With(zap.String("handler", "notification")),
	}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	role, _ := c.MustGet(middleware.ContextRole).(models.UserRole)

	notifications, err := h.notifications.ListForRole(c.Request.Context(), role)
	if err != nil {
		h.logger.Error("Notification list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkRead records the caller's email in the notification's read set. The
// operation is idempotent per user.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	email := c.GetString(middleware.ContextUserEmail)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	n, err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		h.logger.Error("Notification mark-read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, n)
}
