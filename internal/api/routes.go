package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prajwal-kadam12/reqgen/internal/api/handlers"
	"github.com/prajwal-kadam12/reqgen/internal/api/middleware"
	"github.com/prajwal-kadam12/reqgen/internal/db/models"
	"github.com/prajwal-kadam12/reqgen/pkg/metrics"
	"go.uber.org/zap"
)

type Router struct {
	engine              *gin.Engine
	logger              *zap.Logger
	metrics             *metrics.MetricsCollector
	authHandler         *handlers.AuthHandler
	docHandler          *handlers.DocumentHandler
	settingsHandler     *handlers.SettingsHandler
	notificationHandler *handlers.NotificationHandler
	pdfHandler          *handlers.PDFHandler
	transcribeHandler   *handlers.TranscribeHandler
	proxyHandler        *handlers.ProxyHandler
	authMiddleware      *middleware.AuthMiddleware
	reqMiddleware       *middleware.RequestMiddleware
}

func NewRouter(
	logger *zap.Logger,
	metricsCollector *metrics.MetricsCollector,
	authHandler *handlers.AuthHandler,
	docHandler *handlers.DocumentHandler,
	settingsHandler *handlers.SettingsHandler,
	notificationHandler *handlers.NotificationHandler,
	pdfHandler *handlers.PDFHandler,
	transcribeHandler *handlers.TranscribeHandler,
	proxyHandler *handlers.ProxyHandler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	reqMiddleware := middleware.NewRequestMiddleware(logger)
	engine.Use(reqMiddleware.ProcessRequest())
	engine.Use(reqMiddleware.RecoverPanic())
	engine.Use(reqMiddleware.ThrottleLogins())

	return &Router{
		engine:              engine,
		logger:              logger,
		metrics:             metricsCollector,
		authHandler:         authHandler,
		docHandler:          docHandler,
		settingsHandler:     settingsHandler,
		notificationHandler: notificationHandler,
		pdfHandler:          pdfHandler,
		transcribeHandler:   transcribeHandler,
		proxyHandler:        proxyHandler,
		authMiddleware:      middleware.NewAuthMiddleware(logger),
		reqMiddleware:       reqMiddleware,
	}
}

func (r *Router) SetupRoutes() {
	anyRole := r.authMiddleware.RequireRole(models.RoleAdmin, models.RoleAnalyst, models.RoleClient)
	staffOnly := r.authMiddleware.RequireRole(models.RoleAdmin, models.RoleAnalyst)
	adminOnly := r.authMiddleware.RequireRole(models.RoleAdmin)

	r.engine.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"counters":  r.metrics.GetCounters(),
			"latencies": r.metrics.GetLatencies(),
			"sizes":     r.metrics.GetSizes(),
		})
	})

	api := r.engine.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "reqgen"})
	})

	api.POST("/login", r.authHandler.Login)

	documents := api.Group("/documents")
	{
		documents.POST("", staffOnly, r.docHandler.CreateDocument)
		documents.GET("", anyRole, r.docHandler.ListDocuments)
		documents.GET("/:id", anyRole, r.docHandler.GetDocument)
		documents.PATCH("/:id", anyRole, r.docHandler.UpdateDocument)
		documents.DELETE("/:id", staffOnly, r.docHandler.DeleteDocument)
	}

	api.GET("/settings", anyRole, r.settingsHandler.GetSettings)
	api.PUT("/settings", adminOnly, r.settingsHandler.UpdateSettings)

	api.GET("/notifications", staffOnly, r.notificationHandler.ListNotifications)
	api.PATCH("/notifications/:id/read", staffOnly, r.notificationHandler.MarkRead)

	api.POST("/generate-pdf", staffOnly, r.pdfHandler.GeneratePDF)
	api.POST("/send-email", staffOnly, r.pdfHandler.SendEmail)

	api.POST("/vakyansh-transcribe", staffOnly, r.transcribeHandler.Transcribe)

	api.POST("/python/:endpoint", staffOnly, r.proxyHandler.Forward)
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) Run(addr string) error {
	r.logger.Info("Starting HTTP server", zap.String("address", addr))
	return r.engine.Run(addr)
}
