package handler

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type poolStatser interface {
	Stats() sql.DBStats
}

// SystemHandler serves liveness and build information
type SystemHandler struct {
	BaseHandler
	db        Pinger
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. db may be nil.
func NewSystemHandler(db Pinger, version string, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: BaseHandler{logger: logger},
		db:          db,
		version:     version,
		startTime:   time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	GoVersion string `json:"goVersion"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
	// Database is filled when the store exposes connection pool stats
	Database *DatabaseHealth `json:"database,omitempty"`
}

// DatabaseHealth is a snapshot of the connection pool
type DatabaseHealth struct {
	OpenConnections int   `json:"openConnections"`
	InUse           int   `json:"inUse"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"waitCount"`
}

// Health reports "ok", or 503 when the database does not answer a ping
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logger.L(ctx, h.logger).Warn("Health check database ping failed", zap.Error(err))
			resp.Status = "unavailable"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		if p, ok := h.db.(poolStatser); ok {
			st := p.Stats()
			resp.Database = &DatabaseHealth{
				OpenConnections: st.OpenConnections,
				InUse:           st.InUse,
				Idle:            st.Idle,
				WaitCount:       st.WaitCount,
			}
		}
	}

	h.Success(c, resp)
}
