// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"servitrack/internal/core/session"
	"servitrack/internal/domain/audit"
	"servitrack/internal/domain/parts"
	"servitrack/internal/domain/request"
	"servitrack/internal/infrastructure/http/v1/handlers"
	"servitrack/internal/infrastructure/http/v1/middleware"
	"servitrack/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Requests is the service-request store.
	Requests *request.Store

	// Parts is the spare-parts inventory store.
	Parts *parts.Store

	// Trail records lifecycle transitions; optional.
	Trail *audit.Trail

	// Upstream is pinged by the readiness probe.
	Upstream handlers.Pinger

	// Sessions hydrates the caller session from bearer tokens.
	Sessions *session.Service

	// Logger for request logging.
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware. Recovery runs inside ErrorHandler so a recovered
	// panic still produces the structured 500 body.
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	// Health endpoints (no session required)
	healthHandler := handlers.NewHealthHandler(cfg.Upstream, cfg.Trail)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Session(cfg.Sessions))
	{
		registerRequestRoutes(apiV1, cfg)
		registerPartsRoutes(apiV1, cfg)
	}

	return router
}

func registerRequestRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	h := handlers.NewRequestHandler(cfg.Requests, cfg.Trail)

	requests := rg.Group("/requests")
	{
		requests.GET("", h.List)
		requests.POST("/refresh", h.Refresh)
		requests.GET("/:id", h.Get)
		requests.GET("/:id/edit", h.OpenEdit)
		requests.PUT("/:id", h.Save)
		requests.POST("/edit/close", h.CloseEdit)
		requests.DELETE("/:id", h.Delete)
		requests.GET("/:id/history", h.History)

		requests.POST("/:id/pending-quote", h.MarkPendingQuote)
		requests.POST("/:id/pending-invoice", h.MarkPendingInvoice)
		requests.POST("/:id/quote", h.IssueQuote)
		requests.POST("/:id/invoice", h.IssueInvoice)
		requests.POST("/:id/acknowledge", h.Acknowledge)
		requests.POST("/:id/in-process", h.MarkInProcess)
		requests.POST("/:id/deliver", h.Deliver)
		requests.POST("/:id/cancel", h.Cancel)
	}
}

func registerPartsRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	h := handlers.NewPartsHandler(cfg.Parts)

	inventory := rg.Group("/parts")
	{
		inventory.GET("", h.List)
		inventory.POST("/refresh", h.Refresh)
		inventory.GET("/:id", h.Get)
		inventory.POST("", h.Create)
		inventory.PUT("/:id", h.Update)
		inventory.DELETE("/:id", h.Delete)
		inventory.POST("/:id/movements", h.RegisterMovement)
	}
}
