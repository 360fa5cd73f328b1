package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDisplaySettings(t *testing.T) {
	settings := DefaultDisplaySettings()

	assert.Equal(t, DisplayModeCombined, settings.DisplayMode)
	assert.Equal(t, CanonicalMetricOrder, settings.EnabledMetrics)
	assert.Equal(t, CanonicalMetricOrder, settings.MetricOrder)
}

// TestDisplaySettings_NormalizeDropsUnknownMetrics tests forward compatibility
// with documents written by newer schema versions.
func TestDisplaySettings_NormalizeDropsUnknownMetrics(t *testing.T) {
	settings := DisplaySettings{
		DisplayMode:    DisplayModeIndividual,
		EnabledMetrics: []MetricKind{MetricCPU, "npu", MetricGPU, "quantum"},
		MetricOrder:    []MetricKind{"npu", MetricTemp, MetricCPU},
	}

	settings.Normalize()

	assert.Equal(t, DisplayModeIndividual, settings.DisplayMode)
	assert.Equal(t, []MetricKind{MetricCPU, MetricGPU}, settings.EnabledMetrics)
	// Known entries keep their position, missing ones are appended canonically
	assert.Equal(t, []MetricKind{MetricTemp, MetricCPU, MetricGPU, MetricVRAM, MetricRAM}, settings.MetricOrder)
}

func TestDisplaySettings_NormalizeRemovesDuplicates(t *testing.T) {
	settings := DisplaySettings{
		DisplayMode:    DisplayModeCombined,
		EnabledMetrics: []MetricKind{MetricCPU, MetricCPU, MetricRAM, MetricCPU},
		MetricOrder:    append([]MetricKind(nil), CanonicalMetricOrder...),
	}

	settings.Normalize()

	assert.Equal(t, []MetricKind{MetricCPU, MetricRAM}, settings.EnabledMetrics)
}

func TestDisplaySettings_NormalizeBadMode(t *testing.T) {
	settings := DisplaySettings{DisplayMode: "stacked"}
	settings.Normalize()
	assert.Equal(t, DisplayModeCombined, settings.DisplayMode)
}

// TestDisplaySettings_NormalizeEmptyDocument tests that a zero-value document
// comes out with a complete order but nothing enabled.
func TestDisplaySettings_NormalizeEmptyDocument(t *testing.T) {
	var settings DisplaySettings
	settings.Normalize()

	assert.Equal(t, DisplayModeCombined, settings.DisplayMode)
	assert.Empty(t, settings.EnabledMetrics)
	assert.Equal(t, CanonicalMetricOrder, settings.MetricOrder)
}
