package handler

import (
	"net/http"

	"kikostats/internal/model"
	"kikostats/internal/service"
	"kikostats/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SettingsHandler handles display settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings returns the current display settings
// @Summary Get display settings
// @Produce json
// @Success 200 {object} model.DisplaySettings
// @Router /v1/settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settingsService.Get(c.Request.Context()))
}

// UpdateSettings replaces the display settings
// @Summary Update display settings
// @Accept json
// @Produce json
// @Success 200 {object} model.DisplaySettings
// @Router /v1/settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var settings model.DisplaySettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.settingsService.Update(c.Request.Context(), settings)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to update settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, saved)
}

// ResetSettings restores default display settings
// @Summary Reset display settings
// @Produce json
// @Success 200 {object} model.DisplaySettings
// @Router /v1/settings/reset [post]
func (h *SettingsHandler) ResetSettings(c *gin.Context) {
	saved, err := h.settingsService.Reset(c.Request.Context())
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to reset settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, saved)
}
