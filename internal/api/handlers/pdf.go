package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prajwal-kadam12/reqgen/internal/services"
	"github.com/prajwal-kadam12/reqgen/pkg/metrics"
	"go.uber.org/zap"
)

type PDFHandler struct {
	renderer services.PDFRenderer
	sender   services.EmailSender
	logger   *zap.Logger
	metrics  *metrics.MetricsCollector
}

func NewPDFHandler(
	renderer services.PDFRenderer,
	sender services.EmailSender,
	logger *zap.Logger,
	metrics *metrics.MetricsCollector,
) *PDFHandler {
	return &PDFHandler{
		renderer: renderer,
		sender:   sender,
		logger:   logger.With(zap.String("handler", "pdf")),
		metrics:  metrics,
	}
}

type generatePDFRequest struct {
	DocumentHtml string `json:"documentHtml" binding:"required"`
	FileName     string `json:"fileName"`
}

func (h *PDFHandler) GeneratePDF(c *gin.Context) {
	var req generatePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	start := time.Now()
	pdf, err := h.renderer.RenderPDF(c.Request.Context(), req.DocumentHtml)
	if err != nil {
		h.logger.Error("PDF rendering failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.ObserveLatency("pdf_render", time.Since(start))
	h.metrics.ObserveSize("pdf_bytes", float64(len(pdf)))

	fileName := req.FileName
	if fileName == "" {
		fileName = "document.pdf"
	}
	if !strings.HasSuffix(fileName, ".pdf") {
		fileName += ".pdf"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

type sendEmailRequest struct {
	To           string `json:"to" binding:"required,email"`
	Subject      string `json:"subject" binding:"required"`
	Message      string `json:"message"`
	DocumentHtml string `json:"documentHtml" binding:"required"`
	FileName     string `json:"fileName"`
}

// SendEmail renders the document to PDF and dispatches it as an attachment.
// The free-text message is escaped before being embedded in the HTML body.
func (h *PDFHandler) SendEmail(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	pdf, err := h.renderer.RenderPDF(c.Request.Context(), req.DocumentHtml)
	if err != nil {
		h.logger.Error("PDF rendering failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	body := "<p>Please find the requested document attached.</p>"
	if req.Message != "" {
		body = fmt.Sprintf("<p>%s</p>", html.EscapeString(req.Message))
	}

	msg := services.EmailMessage{
		To:             req.To,
		Subject:        req.Subject,
		HTMLBody:       body,
		Attachment:     pdf,
		AttachmentName: req.FileName,
	}
	if err := h.sender.Send(c.Request.Context(), msg); err != nil {
		h.logger.Error("Email dispatch failed", zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.metrics.IncrementCounter("emails_sent", nil)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email sent successfully"})
}
