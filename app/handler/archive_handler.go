package handler

import (
	"net/http"
	"strconv"
	"time"

	"kikostats/internal/service"
	"kikostats/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ArchiveHandler handles archived unit metrics HTTP requests
type ArchiveHandler struct {
	archiveService *service.ArchiveService
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(archiveService *service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archiveService: archiveService}
}

// ListUnits lists archived unit metrics with filters
// @Summary List archived units
// @Produce json
// @Param run_id query string false "Filter by run id"
// @Param unit_type query string false "Filter by unit type"
// @Param start_time query string false "Start time (RFC3339, default: 24 hours ago)"
// @Param end_time query string false "End time (RFC3339, default: now)"
// @Param limit query int false "Page size (default: 50)"
// @Param offset query int false "Offset (default: 0)"
// @Success 200 {object} map[string]interface{}
// @Router /v1/archive/units [get]
func (h *ArchiveHandler) ListUnits(c *gin.Context) {
	// Parse time range (default: last 24 hours)
	endTime := time.Now()
	startTime := endTime.Add(-24 * time.Hour)

	if start := c.Query("start_time"); start != "" {
		if t, err := time.Parse(time.RFC3339, start); err == nil {
			startTime = t
		}
	}
	if end := c.Query("end_time"); end != "" {
		if t, err := time.Parse(time.RFC3339, end); err == nil {
			endTime = t
		}
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filters := map[string]interface{}{
		"run_id":     c.Query("run_id"),
		"unit_type":  c.Query("unit_type"),
		"start_time": startTime,
		"end_time":   endTime,
	}

	records, total, err := h.archiveService.ListArchivedUnits(c.Request.Context(), filters, limit, offset)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to list archived units: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       records,
		"total":      total,
		"start_time": startTime.Format(time.RFC3339),
		"end_time":   endTime.Format(time.RFC3339),
	})
}

// GetLatestUnit returns the most recent archived record for one unit
// @Summary Get latest archived record for a unit
// @Produce json
// @Success 200 {object} model.UnitMetricsRecord
// @Router /v1/archive/units/:unit_id [get]
func (h *ArchiveHandler) GetLatestUnit(c *gin.Context) {
	unitID := c.Param("unit_id")

	record, err := h.archiveService.GetLatestUnit(c.Request.Context(), unitID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no archived record for unit " + unitID})
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetStats returns archive pipeline statistics
// @Summary Get archive queue statistics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/archive/stats [get]
func (h *ArchiveHandler) GetStats(c *gin.Context) {
	pending, err := h.archiveService.PendingArchives()
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to inspect archive queue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending": pending,
	})
}

// GetRunAggregate returns aggregate statistics for one run
// @Summary Get run aggregate
// @Produce json
// @Success 200 {object} mysql.RunAggregate
// @Router /v1/archive/runs/:run_id [get]
func (h *ArchiveHandler) GetRunAggregate(c *gin.Context) {
	runID := c.Param("run_id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_id is required"})
		return
	}

	agg, err := h.archiveService.GetRunAggregate(c.Request.Context(), runID)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to aggregate run %s: %v", runID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, agg)
}
