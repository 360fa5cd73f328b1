package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"kikostats/internal/model"

	"github.com/go-redis/redis/v8"
)

const settingsKey = "settings:display"

// SettingsRepository persists the display settings document in Redis as a
// flat JSON key-value record.
type SettingsRepository struct {
	redis *redis.Client
}

// NewSettingsRepository creates a settings repository.
func NewSettingsRepository(redisClient *RedisClient) *SettingsRepository {
	return &SettingsRepository{
		redis: redisClient.GetClient(),
	}
}

// Load retrieves the persisted settings document. A missing key returns
// (nil, nil); the caller decides the default. Unknown JSON keys are ignored
// for forward compatibility.
func (r *SettingsRepository) Load(ctx context.Context) (*model.DisplaySettings, error) {
	data, err := r.redis.Get(ctx, settingsKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var settings model.DisplaySettings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &settings, nil
}

// Save persists the settings document. No TTL: settings live until the next
// explicit save.
func (r *SettingsRepository) Save(ctx context.Context, settings *model.DisplaySettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := r.redis.Set(ctx, settingsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
