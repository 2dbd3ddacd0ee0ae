package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parkops/backend/internal/interfaces/http/dto"
)

// ReadinessProbe reports whether a background component finished its
// deferred initialization
type ReadinessProbe interface {
	Ready() bool
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	probes    []ReadinessProbe
}

// NewSystemHandler creates a new SystemHandler. Probes gate the readiness
// endpoint; a nil probe list means the service is ready once it serves.
func NewSystemHandler(probes ...ReadinessProbe) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		probes:    probes,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"ParkOps Sync API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "ParkOps Sync API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Simple ping endpoint to check if the API is responsive
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Readiness godoc
// @ID           getSystemReadiness
// @Summary      Readiness probe
// @Description  Returns 200 once deferred initialization (scheduler timer registration) has completed, 503 before.
// @Tags         system
// @Produce      json
// @Success      200 {object} SuccessResponse
// @Failure      503 {object} ErrorResponse
// @Router       /system/ready [get]
func (h *SystemHandler) Readiness(c *gin.Context) {
	for _, p := range h.probes {
		if p != nil && !p.Ready() {
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.ErrCodeConflict, "still initializing"))
			return
		}
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"ready": true}))
}
