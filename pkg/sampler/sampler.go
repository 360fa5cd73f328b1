// Package sampler implements the platform sample source: CPU and RAM via
// gopsutil, GPU via nvidia-smi. Subsystems that cannot report are flagged
// unavailable instead of failing the tick.
package sampler

import (
	"context"
	"time"

	"kikostats/internal/model"
	"kikostats/pkg/config"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const bytesPerMB = 1024 * 1024

// Sampler collects one RawSample per call. CPU percent is derived from the
// delta between consecutive cpu.Times reads, so the constructor primes the
// baseline; the first tick after construction already has a meaningful value.
type Sampler struct {
	enableGPU    bool
	enableSystem bool
	gpu          *nvidiaQuerier

	prevTotal float64
	prevIdle  float64
}

// New creates a sampler and primes the CPU baseline.
func New(cfg config.MonitorConfig) *Sampler {
	s := &Sampler{
		enableGPU:    cfg.EnableGPU,
		enableSystem: cfg.EnableSystem,
		gpu:          newNvidiaQuerier(time.Duration(cfg.NvidiaSMITimeoutMs) * time.Millisecond),
	}
	if s.enableSystem {
		s.cpuPercent()
	}
	return s
}

// Sample implements monitor.Source.
func (s *Sampler) Sample(ctx context.Context) (model.RawSample, error) {
	raw := model.RawSample{Timestamp: time.Now()}

	if s.enableSystem {
		s.sampleSystem(&raw)
	}
	if s.enableGPU {
		s.sampleGPU(ctx, &raw)
	}
	return raw, nil
}

func (s *Sampler) sampleSystem(raw *model.RawSample) {
	memStat, err := mem.VirtualMemory()
	if err != nil {
		return
	}
	raw.CPUPercent = s.cpuPercent()
	raw.RAMUsedMB = int64(memStat.Used / bytesPerMB)
	raw.RAMTotalMB = int64(memStat.Total / bytesPerMB)
	raw.SystemAvailable = true
}

func (s *Sampler) sampleGPU(ctx context.Context, raw *model.RawSample) {
	stats, ok := s.gpu.query(ctx)
	if !ok {
		return
	}
	raw.GPUUtilization = stats.utilization
	raw.GPUMemoryUsed = stats.memoryUsedMB
	raw.GPUMemoryTotal = stats.memoryTotalMB
	raw.GPUTemperature = stats.temperatureC
	raw.GPUPowerDraw = stats.powerDrawW
	raw.GPUAvailable = true
}

// cpuPercent computes utilization from the times delta since the last call.
func (s *Sampler) cpuPercent() float64 {
	times, err := cpu.Times(false)
	if err != nil || len(times) == 0 {
		return 0
	}
	cur := times[0]
	curTotal := cur.Total()
	curIdle := cur.Idle + cur.Iowait

	var pct float64
	if s.prevTotal > 0 {
		dt := curTotal - s.prevTotal
		di := curIdle - s.prevIdle
		if dt > 0 {
			pct = 100 * (1 - di/dt)
		}
	}
	s.prevTotal, s.prevIdle = curTotal, curIdle
	if pct < 0 {
		pct = 0
	}
	return pct
}
