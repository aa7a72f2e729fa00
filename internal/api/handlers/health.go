package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labdan/Dashboard-sub000/internal/api/response"
	"github.com/labdan/Dashboard-sub000/internal/infra/database/postgres"
)

// DatabaseChecker reports store health
type DatabaseChecker interface {
	Health(ctx context.Context) *postgres.HealthStatus
}

// Pinger is an optional dependency such as the Redis cache
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        DatabaseChecker
	cache     Pinger
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler. cache may be nil.
func NewHealthHandler(db DatabaseChecker, cache Pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     cache,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse is the /health body
type HealthResponse struct {
	Status        string                 `json:"status"`
	Version       string                 `json:"version"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	Timestamp     time.Time              `json:"timestamp"`
	Database      *postgres.HealthStatus `json:"database"`
	Cache         string                 `json:"cache,omitempty"`
}

// Health returns store health; 503 only when the database is unreachable.
// A failing cache degrades but does not fail the check.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	db := h.db.Health(ctx)

	resp := HealthResponse{
		Status:        db.Status,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now(),
		Database:      db,
	}

	if h.cache != nil {
		resp.Cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			resp.Cache = "error: " + err.Error()
			if resp.Status == postgres.StatusHealthy {
				resp.Status = postgres.StatusDegraded
			}
		}
	}

	statusCode := http.StatusOK
	if db.Status == postgres.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	response.Status(c, statusCode, resp)
}
