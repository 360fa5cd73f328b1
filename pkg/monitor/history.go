package monitor

import (
	"kikostats/internal/model"
)

// DefaultHistorySize is the number of ring slots kept per metric.
const DefaultHistorySize = 60

// DefaultUnitLogSize bounds the live completed-unit log.
const DefaultUnitLogSize = 10

// HistoryStore keeps a fixed-capacity ring per metric plus the bounded,
// order-preserving log of completed units. All five rings share one write
// cursor so slot i always corresponds to the same sampling tick across
// metrics. Not safe for concurrent use; the engine serializes access.
type HistoryStore struct {
	size   int
	cursor int
	ticks  uint64
	series map[model.MetricKind][]float64

	unitCap int
	units   []model.UnitMetrics
}

// NewHistoryStore creates a store with the given ring size and unit log capacity.
func NewHistoryStore(size, unitCap int) *HistoryStore {
	if size <= 0 {
		size = DefaultHistorySize
	}
	if unitCap <= 0 {
		unitCap = DefaultUnitLogSize
	}
	series := make(map[model.MetricKind][]float64, len(model.CanonicalMetricOrder))
	for _, kind := range model.CanonicalMetricOrder {
		series[kind] = make([]float64, size)
	}
	return &HistoryStore{
		size:    size,
		series:  series,
		unitCap: unitCap,
		units:   make([]model.UnitMetrics, 0, unitCap),
	}
}

// Append writes one slot per metric at the shared cursor and advances it.
func (h *HistoryStore) Append(sample *model.ResourceSample) {
	for _, kind := range model.CanonicalMetricOrder {
		h.series[kind][h.cursor] = sample.Metric(kind)
	}
	h.cursor = (h.cursor + 1) % h.size
	h.ticks++
}

// Cursor returns the next write slot. After N appends it equals N mod size.
func (h *HistoryStore) Cursor() int {
	return h.cursor
}

// Ticks returns the total number of appends since creation.
func (h *HistoryStore) Ticks() uint64 {
	return h.ticks
}

// Size returns the ring capacity.
func (h *HistoryStore) Size() int {
	return h.size
}

// Series returns the ring for one metric linearized oldest-first. Before the
// ring has wrapped, only the slots written so far are returned.
func (h *HistoryStore) Series(kind model.MetricKind) []float64 {
	ring, ok := h.series[kind]
	if !ok {
		return nil
	}
	if h.ticks < uint64(h.size) {
		out := make([]float64, h.cursor)
		copy(out, ring[:h.cursor])
		return out
	}
	out := make([]float64, 0, h.size)
	out = append(out, ring[h.cursor:]...)
	out = append(out, ring[:h.cursor]...)
	return out
}

// AllSeries linearizes every metric ring, keyed by metric name.
func (h *HistoryStore) AllSeries() map[model.MetricKind][]float64 {
	out := make(map[model.MetricKind][]float64, len(h.series))
	for _, kind := range model.CanonicalMetricOrder {
		out[kind] = h.Series(kind)
	}
	return out
}

// AppendUnit records a completed unit, evicting the oldest entry beyond capacity.
func (h *HistoryStore) AppendUnit(metrics model.UnitMetrics) {
	h.units = append(h.units, metrics)
	if overflow := len(h.units) - h.unitCap; overflow > 0 {
		h.units = append(h.units[:0], h.units[overflow:]...)
	}
}

// Units returns the completed-unit log in completion order, newest last.
func (h *HistoryStore) Units() []model.UnitMetrics {
	out := make([]model.UnitMetrics, len(h.units))
	copy(out, h.units)
	return out
}
