package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kikostats/internal/model"
	"kikostats/pkg/config"
	"kikostats/pkg/logger"

	"github.com/hibiken/asynq"
)

const (
	TypeArchiveUnit = "unit_metrics:archive"
)

// Manager queue manager
type Manager struct {
	client   *asynq.Client
	server   *asynq.Server
	mux      *asynq.ServeMux
	redisOpt asynq.RedisClientOpt
	maxRetry int
}

// NewManager creates queue manager
func NewManager(cfg *config.Config) (*Manager, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				"default": 10,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Second
			},
		},
	)

	mux := asynq.NewServeMux()

	return &Manager{
		client:   client,
		server:   server,
		mux:      mux,
		redisOpt: redisOpt,
		maxRetry: cfg.Queue.MaxRetry,
	}, nil
}

// EnqueueUnitMetrics enqueues a completed unit summary for archival
func (m *Manager) EnqueueUnitMetrics(ctx context.Context, metrics *model.UnitMetrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal unit metrics: %w", err)
	}

	task := asynq.NewTask(TypeArchiveUnit, payload)

	opts := []asynq.Option{
		asynq.MaxRetry(m.maxRetry),
		asynq.Timeout(30 * time.Second),
	}

	info, err := m.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue unit metrics: %w", err)
	}

	logger.InfoCtx(ctx, "unit metrics enqueued, unit_id: %s, queue: %s", metrics.UnitID, info.Queue)

	return nil
}

// RegisterHandler registers task handler
func (m *Manager) RegisterHandler(pattern string, handler asynq.Handler) {
	m.mux.Handle(pattern, handler)
}

// Start starts queue processor
func (m *Manager) Start() error {
	logger.InfoCtx(context.Background(), "starting queue server")
	return m.server.Start(m.mux)
}

// Stop stops queue processor
func (m *Manager) Stop() {
	logger.InfoCtx(context.Background(), "stopping queue server")
	m.server.Stop()
	m.server.Shutdown()
}

// Close closes client
func (m *Manager) Close() error {
	return m.client.Close()
}

// GetPendingCount retrieves the number of tasks waiting in the archive queue.
// A queue that has never seen a task reports zero.
func (m *Manager) GetPendingCount() (int, error) {
	inspector := asynq.NewInspector(m.redisOpt)
	defer inspector.Close()

	stats, err := inspector.GetQueueInfo("default")
	if err != nil {
		if errors.Is(err, asynq.ErrQueueNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return stats.Pending, nil
}
