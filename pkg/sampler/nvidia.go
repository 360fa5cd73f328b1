package sampler

import (
	"bufio"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// nvidiaQuerier reads the primary GPU through nvidia-smi. A missing binary,
// a timeout, or unparsable output all mean "GPU unavailable", never an error
// surfaced to the tick.
type nvidiaQuerier struct {
	timeout time.Duration
}

type gpuStats struct {
	utilization   float64
	memoryUsedMB  int64
	memoryTotalMB int64
	temperatureC  float64
	powerDrawW    float64
}

func newNvidiaQuerier(timeout time.Duration) *nvidiaQuerier {
	if timeout <= 0 {
		timeout = 400 * time.Millisecond
	}
	return &nvidiaQuerier{timeout: timeout}
}

func (q *nvidiaQuerier) query(ctx context.Context) (gpuStats, bool) {
	queryCtx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	out, err := exec.CommandContext(queryCtx, "nvidia-smi",
		"--query-gpu=utilization.gpu,memory.used,memory.total,temperature.gpu,power.draw",
		"--format=csv,noheader,nounits").Output()
	if err != nil || len(out) == 0 {
		return gpuStats{}, false
	}

	// First line is the primary device.
	sc := bufio.NewScanner(strings.NewReader(string(out)))
	if !sc.Scan() {
		return gpuStats{}, false
	}
	return parseGPULine(sc.Text())
}

func parseGPULine(line string) (gpuStats, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 5 {
		return gpuStats{}, false
	}
	return gpuStats{
		utilization:   parseFloat(parts[0]),
		memoryUsedMB:  int64(parseFloat(parts[1])),
		memoryTotalMB: int64(parseFloat(parts[2])),
		temperatureC:  parseFloat(parts[3]),
		powerDrawW:    parseFloat(parts[4]),
	}, true
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
