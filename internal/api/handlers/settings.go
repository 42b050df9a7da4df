package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prajwal-kadam12/reqgen/internal/db/models"
	"github.com/prajwal-kadam12/reqgen/internal/store"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	settings store.SettingsStore
	logger   *zap.Logger
}

func NewSettingsHandler(settings store.SettingsStore, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		logger:   logger.With(zap.String("handler", "settings")),
	}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("Settings read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type updateSettingsRequest struct {
	CompanyName        string `json:"companyName"`
	NotificationEmail  string `json:"notificationEmail" binding:"omitempty,email"`
	EmailNotifications bool   `json:"emailNotifications"`
	DefaultLanguage    string `json:"defaultLanguage"`
	AutoApproveDays    int    `json:"autoApproveDays" binding:"omitempty,min=0"`
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	settings := &models.Settings{
		CompanyName:        req.CompanyName,
		NotificationEmail:  req.NotificationEmail,
		EmailNotifications: req.EmailNotifications,
		DefaultLanguage:    req.DefaultLanguage,
		AutoApproveDays:    req.AutoApproveDays,
	}
	if err := h.settings.Put(c.Request.Context(), settings); err != nil {
		h.logger.Error("Settings write failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	h.logger.Info("Settings updated")
	c.JSON(http.StatusOK, settings)
}
