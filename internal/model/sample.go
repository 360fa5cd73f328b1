package model

import (
	"math"
	"time"
)

// MetricKind identifies one charted metric series.
type MetricKind string

const (
	MetricCPU  MetricKind = "cpu"
	MetricGPU  MetricKind = "gpu"
	MetricVRAM MetricKind = "vram"
	MetricRAM  MetricKind = "ram"
	MetricTemp MetricKind = "temp"
)

func (m MetricKind) String() string {
	return string(m)
}

// CanonicalMetricOrder is the default ordering of metric series for display.
var CanonicalMetricOrder = []MetricKind{MetricCPU, MetricGPU, MetricVRAM, MetricRAM, MetricTemp}

// TemperatureCeiling is the fixed normalization ceiling (in Celsius) used to
// scale temperature readings to a 0-100 range for display. Not a hardware limit.
const TemperatureCeiling = 90.0

// Reading is a single instantaneous value with an availability flag.
// When Available is false the value is 0 and must not be treated as a real
// measurement by consumers.
type Reading struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

// MemoryReading captures used/total memory in MB with a derived percentage.
type MemoryReading struct {
	UsedMB    int64   `json:"used_mb"`
	TotalMB   int64   `json:"total_mb"`
	Percent   float64 `json:"percent"`
	Available bool    `json:"available"`
}

// TemperatureReading captures a sensor temperature plus its display-scaled percent.
type TemperatureReading struct {
	Celsius   float64 `json:"celsius"`
	Percent   float64 `json:"percent"`
	Available bool    `json:"available"`
}

// ResourceSample is one instant's readings. It is immutable once produced;
// the engine holds exactly one current sample, replaced wholesale on each tick.
type ResourceSample struct {
	Timestamp   time.Time          `json:"timestamp"`
	CPU         Reading            `json:"cpu"`
	GPU         Reading            `json:"gpu"`
	VRAM        MemoryReading      `json:"vram"`
	RAM         MemoryReading      `json:"ram"`
	Temperature TemperatureReading `json:"temperature"`
	PowerDraw   Reading            `json:"power_draw"`
}

// Metric returns the display-scaled 0-100 value for the given series.
func (s *ResourceSample) Metric(kind MetricKind) float64 {
	switch kind {
	case MetricCPU:
		return s.CPU.Value
	case MetricGPU:
		return s.GPU.Value
	case MetricVRAM:
		return s.VRAM.Percent
	case MetricRAM:
		return s.RAM.Percent
	case MetricTemp:
		return s.Temperature.Percent
	default:
		return 0
	}
}

// RawSample is the record shape delivered by a sample source. Subsystems that
// cannot report set their available flag to false and zero values.
type RawSample struct {
	Timestamp       time.Time `json:"timestamp"`
	CPUPercent      float64   `json:"cpu_percent"`
	RAMUsedMB       int64     `json:"ram_used"`
	RAMTotalMB      int64     `json:"ram_total"`
	SystemAvailable bool      `json:"system_available"`

	GPUUtilization float64 `json:"gpu_utilization"`
	GPUMemoryUsed  int64   `json:"gpu_memory_used"`
	GPUMemoryTotal int64   `json:"gpu_memory_total"`
	GPUTemperature float64 `json:"gpu_temperature"`
	GPUPowerDraw   float64 `json:"gpu_power_draw"`
	GPUAvailable   bool    `json:"gpu_available"`
}

// Normalize converts a raw source record into an immutable ResourceSample,
// deriving percent fields. A zero total never produces a divide-by-zero; the
// derived percent is simply 0.
func (r *RawSample) Normalize() ResourceSample {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	sample := ResourceSample{
		Timestamp: ts,
		CPU:       Reading{Value: r.CPUPercent, Available: r.SystemAvailable},
		GPU:       Reading{Value: r.GPUUtilization, Available: r.GPUAvailable},
		RAM: MemoryReading{
			UsedMB:    r.RAMUsedMB,
			TotalMB:   r.RAMTotalMB,
			Percent:   DerivePercent(r.RAMUsedMB, r.RAMTotalMB),
			Available: r.SystemAvailable,
		},
		VRAM: MemoryReading{
			UsedMB:    r.GPUMemoryUsed,
			TotalMB:   r.GPUMemoryTotal,
			Percent:   DerivePercent(r.GPUMemoryUsed, r.GPUMemoryTotal),
			Available: r.GPUAvailable,
		},
		PowerDraw: Reading{Value: r.GPUPowerDraw, Available: r.GPUAvailable},
	}

	// A sensor that reads exactly 0C while the GPU reports fine is a
	// not-ready reading, not a real measurement.
	tempAvailable := r.GPUAvailable && r.GPUTemperature != 0
	sample.Temperature = TemperatureReading{
		Celsius:   r.GPUTemperature,
		Percent:   DeriveTemperaturePercent(r.GPUTemperature),
		Available: tempAvailable,
	}

	if !r.SystemAvailable {
		sample.CPU = Reading{}
		sample.RAM = MemoryReading{}
	}
	if !r.GPUAvailable {
		sample.GPU = Reading{}
		sample.VRAM = MemoryReading{}
		sample.Temperature = TemperatureReading{}
		sample.PowerDraw = Reading{}
	}

	return sample
}

// DerivePercent computes round(used/total*100), returning 0 when total is 0.
func DerivePercent(used, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(used) / float64(total) * 100)
}

// DeriveTemperaturePercent scales Celsius against the display ceiling,
// clamped to 100.
func DeriveTemperaturePercent(celsius float64) float64 {
	if celsius <= 0 {
		return 0
	}
	return math.Min(celsius/TemperatureCeiling*100, 100)
}

// UnavailableSample returns the documented zero-value sample reported before
// the first tick has occurred.
func UnavailableSample() ResourceSample {
	return ResourceSample{Timestamp: time.Now()}
}
