package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/locatrova/locatrova-go/internal/infrastructure/observability/performance"
)

// HealthHandlers reports liveness and operation statistics.
type HealthHandlers struct {
	registry    leads.SessionRegistry
	perfTracker *performance.Tracker
	started     time.Time
}

func NewHealthHandlers(registry leads.SessionRegistry, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{registry: registry, perfTracker: perfTracker, started: time.Now()}
}

// HandleHealth handles GET /api/health
func (h *HealthHandlers) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	registry := gin.H{}
	if count, err := h.registry.Len(ctx); err != nil {
		status = "degraded"
		registry["error"] = err.Error()
	} else {
		registry["trackedSessions"] = count
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      status,
		"uptime":      time.Since(h.started).String(),
		"registry":    registry,
		"performance": h.perfTracker.GetOverallStats(),
	})
}
