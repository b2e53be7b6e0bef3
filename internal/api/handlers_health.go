// handlers_health.go - Health check handlers
package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthInfo describes the runtime facts reported by the health endpoint.
type HealthInfo struct {
	Version          string
	Environment      string
	Backend          string
	GeminiConfigured bool
	// BatchCount reports how many ingested batches are retained.
	BatchCount func() int
}

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	info    HealthInfo
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(info HealthInfo) HealthHandler {
	return &HealthHandlerImpl{
		info:    info,
		started: time.Now(),
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	batches := 0
	if h.info.BatchCount != nil {
		batches = h.info.BatchCount()
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"version":          h.info.Version,
		"backend":          h.info.Backend,
		"geminiConfigured": h.info.GeminiConfigured,
		"ingestedBatches":  batches,
		"environment": map[string]interface{}{
			"go":            runtime.Version(),
			"env":           h.info.Environment,
			"platform":      runtime.GOOS + "/" + runtime.GOARCH,
			"uptimeSeconds": int64(time.Since(h.started).Seconds()),
			"memory": map[string]uint64{
				"alloc": mem.Alloc,
				"sys":   mem.Sys,
			},
		},
	})
}
