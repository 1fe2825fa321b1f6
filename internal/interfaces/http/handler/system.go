package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	ping      func(ctx context.Context) error
	cache     string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a SystemHandler. ping checks the database;
// cache names the idempotency cache backend.
func NewSystemHandler(ping func(ctx context.Context) error, cache, version string) *SystemHandler {
	return &SystemHandler{
		ping:      ping,
		cache:     cache,
		version:   version,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Ledger API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Reports whether the service and its database are reachable
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthData]
// @Failure      503 {object} APIResponse[HealthData]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	data := HealthData{Status: "healthy", Database: "up", Cache: h.cache}
	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			data.Status = "unhealthy"
			data.Database = "down"
			c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: data})
			return
		}
	}
	h.Success(c, data)
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "Ledger API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
