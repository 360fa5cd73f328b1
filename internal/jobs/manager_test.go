package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	interval time.Duration
	aligned  bool
	runs     int64
}

func (j *countingJob) Name() string            { return j.name }
func (j *countingJob) Interval() time.Duration { return j.interval }
func (j *countingJob) AlignToInterval() bool   { return j.aligned }
func (j *countingJob) Run(ctx context.Context) error {
	atomic.AddInt64(&j.runs, 1)
	return nil
}

func (j *countingJob) runCount() int64 {
	return atomic.LoadInt64(&j.runs)
}

// TestManager_UnalignedJobRunsImmediately tests that an unaligned job fires
// once on start and again on its ticker.
func TestManager_UnalignedJobRunsImmediately(t *testing.T) {
	manager := NewManager(context.Background())
	job := &countingJob{name: "ticker", interval: 20 * time.Millisecond}

	manager.Register(job)
	manager.Start()
	defer manager.Stop()

	deadline := time.After(2 * time.Second)
	for job.runCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("job ran %d times, want at least 2", job.runCount())
		case <-time.After(5 * time.Millisecond):
		}
	}

	manager.Stop()
	manager.Wait()
	assert.GreaterOrEqual(t, job.runCount(), int64(2))
}

// TestManager_StopBeforeAlignedBoundary tests that an aligned job waiting for
// its boundary exits cleanly on stop without ever running.
func TestManager_StopBeforeAlignedBoundary(t *testing.T) {
	manager := NewManager(context.Background())
	job := &countingJob{name: "daily", interval: 24 * time.Hour, aligned: true}

	manager.Register(job)
	manager.Start()
	manager.Stop()

	done := make(chan struct{})
	go func() {
		manager.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop while waiting for the aligned boundary")
	}

	assert.Equal(t, int64(0), job.runCount())
}

// TestManager_RegisterNilAndDoubleStart tests the registration and start
// guards.
func TestManager_RegisterNilAndDoubleStart(t *testing.T) {
	manager := NewManager(context.Background())
	manager.Register(nil)

	job := &countingJob{name: "once", interval: time.Hour}
	manager.Register(job)

	manager.Start()
	manager.Start() // second call must not relaunch the job loops
	defer manager.Stop()

	require.Eventually(t, func() bool { return job.runCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	// A relaunch would run the job a second time right away
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), job.runCount())
}

func TestFirstRunDelay(t *testing.T) {
	unaligned := &countingJob{interval: time.Hour}
	assert.Equal(t, time.Duration(0), firstRunDelay(unaligned, time.Hour))

	aligned := &countingJob{interval: time.Hour, aligned: true}
	delay := firstRunDelay(aligned, time.Hour)
	assert.Greater(t, delay, time.Duration(0))
	assert.LessOrEqual(t, delay, time.Hour)
}
