package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"servitrack/internal/domain/audit"
)

// Pinger checks reachability of the upstream repository endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	upstream Pinger
	trail    *audit.Trail
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(upstream Pinger, trail *audit.Trail) *HealthHandler {
	return &HealthHandler{upstream: upstream, trail: trail}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (can the service reach its upstream?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.upstream.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"upstream": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"upstream": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"app":     "servitrack",
		"version": "0.1.0",
	}
	if h.trail != nil {
		info["audit_entries"] = h.trail.Len()
	}
	c.JSON(http.StatusOK, info)
}
