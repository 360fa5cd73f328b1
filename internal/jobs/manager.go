package jobs

import (
	"context"
	"sync"
	"time"

	"kikostats/pkg/logger"
)

// Job is a periodic background task. AlignToInterval controls the first run:
// aligned jobs wait for the next interval boundary (a daily job fires at
// midnight), unaligned jobs run once immediately.
type Job interface {
	Name() string
	Interval() time.Duration
	AlignToInterval() bool
	Run(ctx context.Context) error
}

// Manager runs registered jobs on their own tickers until stopped.
type Manager struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	jobs    []Job
	started bool
	wg      sync.WaitGroup
}

// NewManager creates a job manager bound to the provided context.
func NewManager(parent context.Context) *Manager {
	ctx, cancel := context.WithCancel(parent)
	return &Manager{ctx: ctx, cancel: cancel}
}

// Register adds a job. Registration after Start has no effect.
func (m *Manager) Register(job Job) {
	if job == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
}

// Start launches every registered job. Calling Start twice is a no-op.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	jobs := append([]Job(nil), m.jobs...)
	m.mu.Unlock()

	for _, job := range jobs {
		m.wg.Add(1)
		go m.runLoop(job)
	}
}

// Stop signals all jobs to stop.
func (m *Manager) Stop() {
	m.cancel()
}

// Wait blocks until all job loops exit.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) runLoop(job Job) {
	defer m.wg.Done()

	interval := job.Interval()
	if interval <= 0 {
		interval = time.Minute
	}

	if delay := firstRunDelay(job, interval); delay > 0 {
		logger.InfoCtx(m.ctx, "job %s scheduled in %v", job.Name(), delay)
		select {
		case <-m.ctx.Done():
			return
		case <-time.After(delay):
		}
	}
	m.runOnce(job)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.runOnce(job)
		}
	}
}

// firstRunDelay returns how long to wait before the first execution: zero
// for unaligned jobs, time until the next interval boundary otherwise.
func firstRunDelay(job Job, interval time.Duration) time.Duration {
	if !job.AlignToInterval() {
		return 0
	}
	now := time.Now()
	return now.Truncate(interval).Add(interval).Sub(now)
}

func (m *Manager) runOnce(job Job) {
	if err := job.Run(m.ctx); err != nil {
		logger.WarnCtx(m.ctx, "background job %s failed: %v", job.Name(), err)
	}
}
