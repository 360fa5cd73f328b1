package handler

import (
	"net/http"
	"strconv"
	"time"

	"kikostats/internal/service"
	"kikostats/pkg/logger"

	"github.com/gin-gonic/gin"
)

// MonitorHandler handles live monitoring HTTP requests
type MonitorHandler struct {
	monitorService  *service.MonitorService
	settingsService *service.SettingsService
}

// NewMonitorHandler creates a new monitor handler
func NewMonitorHandler(monitorService *service.MonitorService, settingsService *service.SettingsService) *MonitorHandler {
	return &MonitorHandler{
		monitorService:  monitorService,
		settingsService: settingsService,
	}
}

// GetCurrent returns the latest resource snapshot
// @Summary Get current resource stats
// @Produce json
// @Param format query string false "Response format: json (default) or text"
// @Success 200 {object} service.StatsDocument
// @Router /v1/monitor/current [get]
func (h *MonitorHandler) GetCurrent(c *gin.Context) {
	stats := h.monitorService.CurrentStats(c.Request.Context())

	if c.Query("format") == "text" {
		c.String(http.StatusOK, stats.Summary)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetHistory returns the metric history series, filtered by display settings
// @Summary Get metric history
// @Produce json
// @Param all query bool false "Include disabled series (default: false)"
// @Success 200 {object} monitor.HistoryView
// @Router /v1/monitor/history [get]
func (h *MonitorHandler) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()

	if includeAll, _ := strconv.ParseBool(c.Query("all")); includeAll {
		c.JSON(http.StatusOK, h.monitorService.History(ctx, nil))
		return
	}

	settings := h.settingsService.Get(ctx)
	c.JSON(http.StatusOK, h.monitorService.History(ctx, &settings))
}

// GetRecentUnits returns the bounded completed-unit log
// @Summary Get recently completed units
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/monitor/units [get]
func (h *MonitorHandler) GetRecentUnits(c *gin.Context) {
	units := h.monitorService.RecentUnits(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data":  units,
		"total": len(units),
	})
}

// SetInterval applies a new sampling interval
// @Summary Change sampling interval
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/monitor/interval [put]
func (h *MonitorHandler) SetInterval(c *gin.Context) {
	var req struct {
		IntervalSeconds float64 `json:"interval_seconds" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	interval := time.Duration(req.IntervalSeconds * float64(time.Second))
	if err := h.monitorService.SetInterval(c.Request.Context(), interval); err != nil {
		logger.WarnCtx(c.Request.Context(), "interval change rejected: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"interval_seconds": req.IntervalSeconds,
		"state":            h.monitorService.State(),
	})
}
