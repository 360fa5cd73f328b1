package monitor

import (
	"sync"
	"time"

	"kikostats/internal/model"
	"kikostats/pkg/logger"

	"github.com/google/uuid"
)

// State is the engine lifecycle state.
type State string

const (
	StateUninitialized State = "UNINITIALIZED"
	StateRunning       State = "RUNNING"
	StateStopped       State = "STOPPED"
)

// Observer receives engine notifications. Callbacks run outside the engine
// lock on the caller's goroutine; observers that need to block should hand
// off to their own goroutine.
type Observer interface {
	OnSample(sample model.ResourceSample)
	OnUnitComplete(metrics model.UnitMetrics)
	OnRunComplete(summary model.RunSummary)
}

// EngineConfig sizes the engine's history buffers.
type EngineConfig struct {
	HistorySize int
	UnitLogSize int
}

// HistoryView is the linearized, oldest-first read model of the five rings.
type HistoryView struct {
	Series map[model.MetricKind][]float64 `json:"series"`
	Ticks  uint64                         `json:"ticks"`
	Cursor int                            `json:"cursor"`
	Size   int                            `json:"size"`
}

// Engine is the attribution engine: it owns the current resource snapshot,
// the history rings, the correlator, and the completed-unit log. It is the
// single ingestion point for samples and lifecycle events; every other
// component reads through its accessors and never mutates engine-owned state.
// Safe for a single writer with concurrent readers.
type Engine struct {
	mu         sync.RWMutex
	state      State
	current    model.ResourceSample
	hasSample  bool
	history    *HistoryStore
	correlator *Correlator
	clock      *Clock

	runID        string
	runStartedAt time.Time

	obsMu     sync.RWMutex
	observers map[string]Observer

	now func() time.Time
}

// NewEngine creates an engine in the Uninitialized state.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		state:      StateUninitialized,
		history:    NewHistoryStore(cfg.HistorySize, cfg.UnitLogSize),
		correlator: NewCorrelator(),
		observers:  make(map[string]Observer),
		now:        time.Now,
	}
}

// Start attaches a sampling clock fed by source and enters Running. Calling
// Start on a running engine restarts the clock without touching buffers.
func (e *Engine) Start(source Source, interval time.Duration) error {
	e.mu.Lock()
	if e.clock == nil {
		e.clock = NewClock(source, e.IngestRaw)
	}
	clock := e.clock
	e.mu.Unlock()

	if err := clock.Start(interval); err != nil {
		return err
	}

	e.mu.Lock()
	e.state = StateRunning
	e.mu.Unlock()
	return nil
}

// Stop halts the clock but preserves all state for read access. Restarting
// resumes appending at the same cursor position.
func (e *Engine) Stop() {
	e.mu.Lock()
	clock := e.clock
	if e.state == StateRunning {
		e.state = StateStopped
	}
	e.mu.Unlock()

	if clock != nil {
		clock.Stop()
	}
}

// State returns the engine lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// IngestRaw normalizes a raw source record and ingests it.
func (e *Engine) IngestRaw(raw model.RawSample) {
	sample := raw.Normalize()
	e.IngestSample(sample)
}

// IngestSample replaces the current snapshot, appends one slot to every
// history ring at the shared cursor, folds the sample into active units, and
// notifies observers.
func (e *Engine) IngestSample(sample model.ResourceSample) {
	e.mu.Lock()
	e.current = sample
	e.hasSample = true
	e.history.Append(&sample)
	e.correlator.Observe(&sample)
	e.mu.Unlock()

	e.eachObserver(func(o Observer) { o.OnSample(sample) })
}

// OnUnitStart begins tracking an execution unit. The first start after a run
// boundary opens a new run; a missing run id is assigned.
func (e *Engine) OnUnitStart(ev model.UnitStartEvent) {
	e.mu.Lock()
	if e.runStartedAt.IsZero() {
		e.runStartedAt = e.now()
		e.runID = ev.RunID
		if e.runID == "" {
			e.runID = uuid.NewString()
		}
	}
	if ev.RunID == "" {
		ev.RunID = e.runID
	}
	e.correlator.OnUnitStart(ev)
	e.mu.Unlock()

	logger.Debugf("tracking unit %s (%s)", ev.UnitID, ev.TypeTag)
}

// OnUnitEnd completes a unit. Unknown unit ids are a no-op and emit nothing.
func (e *Engine) OnUnitEnd(unitID string) {
	e.mu.Lock()
	metrics, ok := e.correlator.OnUnitEnd(unitID, e.snapshotLocked())
	if ok {
		e.history.AppendUnit(metrics)
	}
	e.mu.Unlock()

	if !ok {
		return
	}
	logger.Debugf("completed unit %s in %.1fms (%d samples)", metrics.UnitID, metrics.DurationMs, metrics.SampleCount)
	e.eachObserver(func(o Observer) { o.OnUnitComplete(metrics) })
}

// OnRunEnd flushes every still-active unit as completed, closes the run, and
// notifies observers with the run summary.
func (e *Engine) OnRunEnd() {
	e.mu.Lock()
	flushed := e.correlator.OnRunEnd(e.snapshotLocked())
	for _, metrics := range flushed {
		e.history.AppendUnit(metrics)
	}
	summary := model.RunSummary{
		RunID:        e.runID,
		CompletedAt:  e.now(),
		FlushedUnits: len(flushed),
	}
	if !e.runStartedAt.IsZero() {
		summary.TotalDuration = summary.CompletedAt.Sub(e.runStartedAt)
		summary.TotalDurationMs = float64(summary.TotalDuration) / float64(time.Millisecond)
	}
	e.runID = ""
	e.runStartedAt = time.Time{}
	e.mu.Unlock()

	for _, metrics := range flushed {
		m := metrics
		e.eachObserver(func(o Observer) { o.OnUnitComplete(m) })
	}
	e.eachObserver(func(o Observer) { o.OnRunComplete(summary) })
}

// Current returns the latest snapshot. Before the first tick it returns the
// documented all-unavailable zero-value sample.
func (e *Engine) Current() model.ResourceSample {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.hasSample {
		return model.UnavailableSample()
	}
	return e.current
}

// History returns the five metric series linearized oldest-first, plus the
// tick counter and the ring cursor.
func (e *Engine) History() HistoryView {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return HistoryView{
		Series: e.history.AllSeries(),
		Ticks:  e.history.Ticks(),
		Cursor: e.history.Cursor(),
		Size:   e.history.Size(),
	}
}

// CompletedLog returns the bounded completed-unit log, newest last.
func (e *Engine) CompletedLog() []model.UnitMetrics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Units()
}

// ActiveUnits returns the number of units currently being tracked.
func (e *Engine) ActiveUnits() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.correlator.ActiveCount()
}

// Subscribe registers an observer and returns its subscription id.
func (e *Engine) Subscribe(o Observer) string {
	id := uuid.NewString()
	e.obsMu.Lock()
	e.observers[id] = o
	e.obsMu.Unlock()
	return id
}

// Unsubscribe removes a previously registered observer.
func (e *Engine) Unsubscribe(id string) {
	e.obsMu.Lock()
	delete(e.observers, id)
	e.obsMu.Unlock()
}

func (e *Engine) eachObserver(fn func(Observer)) {
	e.obsMu.RLock()
	observers := make([]Observer, 0, len(e.observers))
	for _, o := range e.observers {
		observers = append(observers, o)
	}
	e.obsMu.RUnlock()

	for _, o := range observers {
		fn(o)
	}
}

// snapshotLocked returns the current sample for accumulator fallback, or nil
// before the first tick. Caller holds e.mu.
func (e *Engine) snapshotLocked() *model.ResourceSample {
	if !e.hasSample {
		return nil
	}
	sample := e.current
	return &sample
}
