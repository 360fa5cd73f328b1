package monitor

import (
	"sort"
	"time"

	"kikostats/internal/model"
)

// Correlator maps lifecycle events from the host runtime onto the sample
// stream. Each unit moves Idle -> Active -> Completed and never re-enters
// Active once completed. Not safe for concurrent use; the engine serializes
// access.
//
// Attribution policy: per-unit aggregates are accumulated from the samples
// actually observed while the unit is Active. A unit that completes between
// two ticks (zero observed samples) is finalized from the snapshot passed at
// completion, counted as a single sample.
type Correlator struct {
	active map[string]*activeUnit
	now    func() time.Time
}

type activeUnit struct {
	id        string
	runID     string
	label     string
	typeTag   string
	startedAt time.Time
	acc       sampleAccumulator
}

type sampleAccumulator struct {
	count     int
	cpuSum    float64
	cpuMax    float64
	gpuSum    float64
	gpuMax    float64
	vramPeak  int64
	vramFirst int64
	vramLast  int64
}

func (a *sampleAccumulator) fold(sample *model.ResourceSample) {
	if a.count == 0 {
		a.vramFirst = sample.VRAM.UsedMB
	}
	a.count++
	a.cpuSum += sample.CPU.Value
	if sample.CPU.Value > a.cpuMax {
		a.cpuMax = sample.CPU.Value
	}
	a.gpuSum += sample.GPU.Value
	if sample.GPU.Value > a.gpuMax {
		a.gpuMax = sample.GPU.Value
	}
	if sample.VRAM.UsedMB > a.vramPeak {
		a.vramPeak = sample.VRAM.UsedMB
	}
	a.vramLast = sample.VRAM.UsedMB
}

// NewCorrelator creates an empty correlator.
func NewCorrelator() *Correlator {
	return &Correlator{
		active: make(map[string]*activeUnit),
		now:    time.Now,
	}
}

// OnUnitStart begins tracking a unit. A duplicate start for an id that is
// already Active overwrites it (last-start-wins); the upstream runtime is the
// source of truth and may emit redundant starts.
func (c *Correlator) OnUnitStart(ev model.UnitStartEvent) {
	c.active[ev.UnitID] = &activeUnit{
		id:        ev.UnitID,
		runID:     ev.RunID,
		label:     ev.Label,
		typeTag:   ev.TypeTag,
		startedAt: c.now(),
	}
}

// Observe folds one ingested sample into every Active unit's accumulator.
func (c *Correlator) Observe(sample *model.ResourceSample) {
	for _, unit := range c.active {
		unit.acc.fold(sample)
	}
}

// OnUnitEnd completes a unit and returns its metrics. An end event for an id
// that is not Active is a no-op: already completed or never started.
func (c *Correlator) OnUnitEnd(unitID string, snapshot *model.ResourceSample) (model.UnitMetrics, bool) {
	unit, ok := c.active[unitID]
	if !ok {
		return model.UnitMetrics{}, false
	}
	delete(c.active, unitID)
	return c.finalize(unit, snapshot), true
}

// OnRunEnd flushes every remaining Active unit as Completed so no unit is
// silently lost when the runtime's per-unit end event is missing, then clears
// the active set. Units are flushed in start order.
func (c *Correlator) OnRunEnd(snapshot *model.ResourceSample) []model.UnitMetrics {
	if len(c.active) == 0 {
		return nil
	}
	units := make([]*activeUnit, 0, len(c.active))
	for _, unit := range c.active {
		units = append(units, unit)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].startedAt.Before(units[j].startedAt) })

	flushed := make([]model.UnitMetrics, 0, len(units))
	for _, unit := range units {
		flushed = append(flushed, c.finalize(unit, snapshot))
	}
	c.active = make(map[string]*activeUnit)
	return flushed
}

// ActiveCount returns the number of units currently being tracked.
func (c *Correlator) ActiveCount() int {
	return len(c.active)
}

func (c *Correlator) finalize(unit *activeUnit, snapshot *model.ResourceSample) model.UnitMetrics {
	if unit.acc.count == 0 && snapshot != nil {
		unit.acc.fold(snapshot)
	}

	completedAt := c.now()
	metrics := model.UnitMetrics{
		UnitID:      unit.id,
		RunID:       unit.runID,
		TypeTag:     unit.typeTag,
		Label:       unit.label,
		StartedAt:   unit.startedAt,
		CompletedAt: completedAt,
		DurationMs:  float64(completedAt.Sub(unit.startedAt)) / float64(time.Millisecond),
		SampleCount: unit.acc.count,
	}
	if unit.acc.count > 0 {
		metrics.AvgCPUPercent = unit.acc.cpuSum / float64(unit.acc.count)
		metrics.MaxCPUPercent = unit.acc.cpuMax
		metrics.AvgGPUUtilization = unit.acc.gpuSum / float64(unit.acc.count)
		metrics.MaxGPUUtilization = unit.acc.gpuMax
		metrics.PeakVRAMUsedMB = unit.acc.vramPeak
		metrics.VRAMDeltaMB = unit.acc.vramLast - unit.acc.vramFirst
	}
	return metrics
}
