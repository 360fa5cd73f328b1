package queue

import (
	"context"
	"testing"

	"kikostats/internal/model"
	"kikostats/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	mr := miniredis.RunT(t)

	manager, err := NewManager(&config.Config{
		Redis: config.RedisConfig{Addr: mr.Addr()},
		Queue: config.QueueConfig{Concurrency: 1, MaxRetry: 3},
	})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	return manager
}

// TestManager_PendingCountEmptyQueue tests that a queue that has never seen
// a task reports zero instead of a not-found error.
func TestManager_PendingCountEmptyQueue(t *testing.T) {
	manager := newTestManager(t)

	pending, err := manager.GetPendingCount()
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
}

// TestManager_EnqueueThenPendingCount tests that an enqueued unit summary
// shows up as a pending archive task.
func TestManager_EnqueueThenPendingCount(t *testing.T) {
	manager := newTestManager(t)

	err := manager.EnqueueUnitMetrics(context.Background(), &model.UnitMetrics{
		UnitID:      "u1",
		RunID:       "run-1",
		DurationMs:  120,
		SampleCount: 3,
	})
	require.NoError(t, err)

	pending, err := manager.GetPendingCount()
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}
