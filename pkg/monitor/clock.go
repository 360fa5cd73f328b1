package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kikostats/internal/model"
	"kikostats/pkg/logger"
)

// Source produces one instantaneous reading set per call. Implementations
// mark subsystems they cannot report with available:false rather than
// returning an error for missing hardware; the error return is reserved for
// unexpected collection failures.
type Source interface {
	Sample(ctx context.Context) (model.RawSample, error)
}

// Clock invokes a Source at a fixed period and forwards the result to a sink.
// It runs independently of unit lifecycle events. Start is an idempotent
// restart: a running timer is cancelled before the new one begins, so the
// clock never double-fires.
type Clock struct {
	mu     sync.Mutex
	source Source
	sink   func(model.RawSample)
	cancel context.CancelFunc
	done   chan struct{}
}

// NewClock wires a source to a sink without starting the timer.
func NewClock(source Source, sink func(model.RawSample)) *Clock {
	return &Clock{source: source, sink: sink}
}

// Start begins periodic sampling. A non-positive interval is a contract
// violation. Calling Start while running cancels the previous timer first.
func (c *Clock) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sampling interval must be positive, got %v", interval)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	go c.loop(ctx, interval, done)
	return nil
}

// Stop cancels the timer and waits for the loop to exit. Safe to call when
// not running.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Running reports whether the timer loop is active.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

func (c *Clock) stopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel = nil
	c.done = nil
}

func (c *Clock) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Deliver one sample immediately so consumers never wait a full period
	// for the first reading.
	c.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

// tick collects one sample and delivers it. A failing or panicking source
// marks the tick unavailable; it never terminates the loop.
func (c *Clock) tick(ctx context.Context) {
	raw, err := c.collect(ctx)
	if err != nil {
		logger.WarnCtx(ctx, "sample collection failed, delivering unavailable tick: %v", err)
		raw = model.RawSample{Timestamp: time.Now()}
	}
	if raw.Timestamp.IsZero() {
		raw.Timestamp = time.Now()
	}
	c.sink(raw)
}

func (c *Clock) collect(ctx context.Context) (raw model.RawSample, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sample source panicked: %v", r)
		}
	}()
	return c.source.Sample(ctx)
}
