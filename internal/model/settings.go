package model

// DisplayMode selects how the presentation layer lays out metric charts.
type DisplayMode string

const (
	DisplayModeCombined   DisplayMode = "combined"
	DisplayModeIndividual DisplayMode = "individual"
)

// DisplaySettings gates which history series the presentation layer reads.
// The engine always records all five metrics regardless of these settings, so
// re-enabling a metric later loses no data.
type DisplaySettings struct {
	DisplayMode    DisplayMode  `json:"display_mode"`
	EnabledMetrics []MetricKind `json:"enabled_metrics"`
	MetricOrder    []MetricKind `json:"metric_order"`
}

// DefaultDisplaySettings returns the canonical configuration: all five
// metrics enabled, combined mode, canonical order.
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		DisplayMode:    DisplayModeCombined,
		EnabledMetrics: append([]MetricKind(nil), CanonicalMetricOrder...),
		MetricOrder:    append([]MetricKind(nil), CanonicalMetricOrder...),
	}
}

// Normalize repairs a settings document in place: unknown metric names are
// dropped, duplicates removed, missing order entries appended in canonical
// order, and an unrecognized display mode falls back to combined. Forward
// compatible per the persisted schema contract.
func (s *DisplaySettings) Normalize() {
	if s.DisplayMode != DisplayModeCombined && s.DisplayMode != DisplayModeIndividual {
		s.DisplayMode = DisplayModeCombined
	}
	s.EnabledMetrics = dedupeKnown(s.EnabledMetrics)
	s.MetricOrder = dedupeKnown(s.MetricOrder)
	for _, kind := range CanonicalMetricOrder {
		if !containsMetric(s.MetricOrder, kind) {
			s.MetricOrder = append(s.MetricOrder, kind)
		}
	}
}

func dedupeKnown(kinds []MetricKind) []MetricKind {
	seen := make(map[MetricKind]struct{}, len(kinds))
	out := make([]MetricKind, 0, len(kinds))
	for _, kind := range kinds {
		if !containsMetric(CanonicalMetricOrder, kind) {
			continue
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		out = append(out, kind)
	}
	return out
}

func containsMetric(kinds []MetricKind, kind MetricKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
