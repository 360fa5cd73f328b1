package service

import (
	"context"
	"fmt"

	"kikostats/internal/model"
	"kikostats/pkg/logger"
	"kikostats/pkg/store/redis"
)

// SettingsService manages display settings persistence. A missing or
// malformed stored document resolves to defaults instead of an error.
type SettingsService struct {
	repo *redis.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo *redis.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get loads the display settings, falling back to defaults when the stored
// document is absent or unreadable
func (s *SettingsService) Get(ctx context.Context) model.DisplaySettings {
	stored, err := s.repo.Load(ctx)
	if err != nil {
		logger.WarnCtx(ctx, "failed to load display settings, using defaults: %v", err)
		return model.DefaultDisplaySettings()
	}
	if stored == nil {
		return model.DefaultDisplaySettings()
	}

	stored.Normalize()
	return *stored
}

// Update normalizes and persists new display settings
func (s *SettingsService) Update(ctx context.Context, settings model.DisplaySettings) (model.DisplaySettings, error) {
	settings.Normalize()
	if err := s.repo.Save(ctx, &settings); err != nil {
		return model.DisplaySettings{}, fmt.Errorf("failed to save display settings: %w", err)
	}
	logger.InfoCtx(ctx, "display settings updated, mode: %s, enabled: %d", settings.DisplayMode, len(settings.EnabledMetrics))
	return settings, nil
}

// Reset restores defaults and persists them
func (s *SettingsService) Reset(ctx context.Context) (model.DisplaySettings, error) {
	return s.Update(ctx, model.DefaultDisplaySettings())
}
