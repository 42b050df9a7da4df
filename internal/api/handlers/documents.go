package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prajwal-kadam12/reqgen/internal/api/middleware"
	"github.com/prajwal-kadam12/reqgen/internal/db/models"
	"github.com/prajwal-kadam12/reqgen/internal/store"
	"github.com/prajwal-kadam12/reqgen/pkg/metrics"
	"go.uber.org/zap"
)

// updatableColumns maps JSON payload keys to storage columns. Keys missing
// here are dropped from every update.
var updatableColumns = map[string]string{
	"name":          "name",
	"type":          "type",
	"content":       "content",
	"status":        "status",
	"clientMessage": "client_message",
}

// clientColumns is the narrowed field set a client-role update may touch.
var clientColumns = map[string]bool{
	"status":        true,
	"clientMessage": true,
}

type DocumentHandler struct {
	documents     store.DocumentStore
	notifications store.NotificationStore
	logger        *zap.Logger
	metrics       *metrics.MetricsCollector
}

func NewDocumentHandler(
	documents store.DocumentStore,
	notifications store.NotificationStore,
	logger *zap.Logger,
	metrics *metrics.MetricsCollector,
) *DocumentHandler {
	return &DocumentHandler{
		documents:     documents,
		notifications: notifications,
		logger:        logger.With(zap.String("handler", "document")),
		metrics:       metrics,
	}
}

type createDocumentRequest struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"omitempty,doctype"`
	Content string `json:"content"`
	Status  string `json:"status" binding:"omitempty,docstatus"`
}

func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	role, _ := c.MustGet(middleware.ContextRole).(models.UserRole)

	doc := &models.Document{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Type:      models.DocumentType(req.Type),
		Content:   req.Content,
		Status:    models.DocumentStatus(req.Status),
		CreatedBy: role,
	}
	if doc.Type == "" {
		doc.Type = models.TypeGeneral
	}
	if doc.Status == "" {
		doc.Status = models.StatusPending
	}

	if err := h.documents.Create(c.Request.Context(), doc); err != nil {
		h.logger.Error("Document create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		return
	}

	h.metrics.IncrementCounter("documents_created", map[string]string{"type": string(doc.Type)})
	h.logger.Info("Document created",
		zap.String("id", doc.ID),
		zap.String("name", doc.Name),
		zap.String("role", string(role)))
	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Document list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		h.logger.Error("Document get failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve document"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// UpdateDocument branches on caller role: client updates are narrowed to
// status/clientMessage with an allow-listed status set, non-client updates
// pass every updatable field through. A client transition to approved or
// needs_changes emits exactly one notification to the admin/analyst
// dashboards.
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	role, _ := c.MustGet(middleware.ContextRole).(models.UserRole)

	fields := make(map[string]any, len(payload))
	for key, value := range payload {
		column, known := updatableColumns[key]
		if !known {
			continue
		}
		if role == models.RoleClient && !clientColumns[key] {
			continue
		}
		fields[column] = value
	}

	var newStatus models.DocumentStatus
	if raw, ok := fields["status"]; ok {
		v, ok := raw.(string)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
			return
		}
		newStatus = models.DocumentStatus(v)
		if role == models.RoleClient && !models.ClientAllowedStatuses[newStatus] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
			return
		}
	}

	doc, err := h.documents.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		h.logger.Error("Document update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update document"})
		return
	}

	if role == models.RoleClient && (newStatus == models.StatusApproved || newStatus == models.StatusNeedsChanges) {
		h.notifyStatusChange(c, doc, newStatus)
	}

	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) notifyStatusChange(c *gin.Context, doc *models.Document, status models.DocumentStatus) {
	title := "Document approved"
	message := fmt.Sprintf("Client approved document %q", doc.Name)
	if status == models.StatusNeedsChanges {
		title = "Changes requested"
		message = fmt.Sprintf("Client requested changes on document %q", doc.Name)
		if doc.ClientMessage != "" {
			message += ": " + doc.ClientMessage
		}
	}

	n := &models.Notification{
		ID:           uuid.New().String(),
		Title:        title,
		Message:      message,
		TargetRole:   models.TargetAll,
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		CreatorRole:  models.RoleClient,
	}
	if err := h.notifications.Create(c.Request.Context(), n); err != nil {
		// The document update already succeeded; surface the failure in
		// the logs only.
		h.logger.Error("Notification create failed",
			zap.String("document_id", doc.ID),
			zap.Error(err))
		return
	}

	h.metrics.IncrementCounter("notifications_created", map[string]string{"status": string(status)})
	h.logger.Info("Notification created",
		zap.String("document_id", doc.ID),
		zap.String("status", string(status)))
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id := c.Param("id")
	if err := h.documents.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		h.logger.Error("Document delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}

	h.logger.Info("Document deleted", zap.String("id", id))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
