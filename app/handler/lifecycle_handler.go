package handler

import (
	"net/http"

	"kikostats/internal/model"
	"kikostats/pkg/monitor"

	"github.com/gin-gonic/gin"
)

// LifecycleHandler receives execution lifecycle events from the workflow
// runtime: unit starts, unit completions, and run boundaries.
type LifecycleHandler struct {
	engine *monitor.Engine
}

// NewLifecycleHandler creates a new lifecycle handler
func NewLifecycleHandler(engine *monitor.Engine) *LifecycleHandler {
	return &LifecycleHandler{engine: engine}
}

// StartUnit announces that a unit began executing
// @Summary Start tracking a unit
// @Accept json
// @Produce json
// @Success 202 {object} map[string]interface{}
// @Router /v1/runs/:run_id/units/:unit_id/start [post]
func (h *LifecycleHandler) StartUnit(c *gin.Context) {
	ev := model.UnitStartEvent{
		UnitID: c.Param("unit_id"),
		RunID:  c.Param("run_id"),
	}

	// Label and type tag are optional body fields
	var body struct {
		Label   string `json:"label"`
		TypeTag string `json:"unit_type"`
	}
	if err := c.ShouldBindJSON(&body); err == nil {
		ev.Label = body.Label
		ev.TypeTag = body.TypeTag
	}

	if ev.UnitID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_id is required"})
		return
	}

	h.engine.OnUnitStart(ev)
	c.JSON(http.StatusAccepted, gin.H{
		"unit_id":      ev.UnitID,
		"run_id":       ev.RunID,
		"active_units": h.engine.ActiveUnits(),
	})
}

// EndUnit announces that a unit finished executing. Unknown unit ids are
// acknowledged without effect.
// @Summary Complete a unit
// @Produce json
// @Success 202 {object} map[string]interface{}
// @Router /v1/runs/:run_id/units/:unit_id/end [post]
func (h *LifecycleHandler) EndUnit(c *gin.Context) {
	unitID := c.Param("unit_id")
	if unitID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_id is required"})
		return
	}

	h.engine.OnUnitEnd(unitID)
	c.JSON(http.StatusAccepted, gin.H{
		"unit_id":      unitID,
		"active_units": h.engine.ActiveUnits(),
	})
}

// EndRun closes the run, flushing every still-active unit as completed
// @Summary End a run
// @Produce json
// @Success 202 {object} map[string]interface{}
// @Router /v1/runs/:run_id/end [post]
func (h *LifecycleHandler) EndRun(c *gin.Context) {
	h.engine.OnRunEnd()
	c.JSON(http.StatusAccepted, gin.H{
		"run_id":       c.Param("run_id"),
		"active_units": h.engine.ActiveUnits(),
	})
}
