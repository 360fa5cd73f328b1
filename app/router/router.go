package router

import (
	"kikostats/app/handler"
	"kikostats/app/middleware"

	"github.com/gin-gonic/gin"
)

// Router Router
type Router struct {
	monitorHandler   *handler.MonitorHandler
	lifecycleHandler *handler.LifecycleHandler
	settingsHandler  *handler.SettingsHandler
	archiveHandler   *handler.ArchiveHandler
	streamHandler    *handler.StreamHandler
}

// NewRouter creates a new Router
func NewRouter(monitorHandler *handler.MonitorHandler, lifecycleHandler *handler.LifecycleHandler, settingsHandler *handler.SettingsHandler, archiveHandler *handler.ArchiveHandler, streamHandler *handler.StreamHandler) *Router {
	return &Router{
		monitorHandler:   monitorHandler,
		lifecycleHandler: lifecycleHandler,
		settingsHandler:  settingsHandler,
		archiveHandler:   archiveHandler,
		streamHandler:    streamHandler,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())

	// V1 API - Monitoring and lifecycle interface
	v1 := engine.Group("/v1")
	{
		// Live monitoring (read-only, no auth)
		monitor := v1.Group("/monitor")
		{
			monitor.GET("/current", r.monitorHandler.GetCurrent)
			monitor.GET("/history", r.monitorHandler.GetHistory)
			monitor.GET("/units", r.monitorHandler.GetRecentUnits)
			monitor.GET("/stream", r.streamHandler.Stream) // WebSocket push
			monitor.PUT("/interval", r.monitorHandler.SetInterval)
		}

		// Execution lifecycle events from the workflow runtime
		runs := v1.Group("/runs")
		runs.Use(middleware.AuthMiddleware()) // Add simple token authentication
		{
			runs.POST("/:run_id/units/:unit_id/start", r.lifecycleHandler.StartUnit)
			runs.POST("/:run_id/units/:unit_id/end", r.lifecycleHandler.EndUnit)
			runs.POST("/:run_id/end", r.lifecycleHandler.EndRun)
		}

		// Display settings
		settings := v1.Group("/settings")
		{
			settings.GET("", r.settingsHandler.GetSettings)
			settings.PUT("", r.settingsHandler.UpdateSettings)
			settings.POST("/reset", r.settingsHandler.ResetSettings)
		}

		// Archived unit metrics (MySQL-backed, if enabled)
		if r.archiveHandler != nil {
			archive := v1.Group("/archive")
			{
				archive.GET("/units", r.archiveHandler.ListUnits)
				archive.GET("/units/:unit_id", r.archiveHandler.GetLatestUnit)
				archive.GET("/runs/:run_id", r.archiveHandler.GetRunAggregate)
				archive.GET("/stats", r.archiveHandler.GetStats)
			}
		}
	}

	// Health check
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
