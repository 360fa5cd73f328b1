package main

import (
	"fmt"
	"net/http"

	"kikostats/app/handler"
	"kikostats/app/router"
	"kikostats/internal/service"
	"kikostats/pkg/config"
	"kikostats/pkg/logger"
	"kikostats/pkg/monitor"
	"kikostats/pkg/queue"
	"kikostats/pkg/sampler"
	mysqlstore "kikostats/pkg/store/mysql"
	redisstore "kikostats/pkg/store/redis"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// initConfig initializes configuration
func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		return err
	}
	app.config = config.GlobalConfig
	return nil
}

// initLogger initializes logging
func (app *Application) initLogger() error {
	if err := logger.Init(); err != nil {
		return err
	}
	app.registerCleanup(func() {
		logger.Sync()
		logger.InfoCtx(app.ctx, "Logging system has been closed")
	})
	return nil
}

// initRedis initializes Redis
func (app *Application) initRedis() error {
	client, err := redisstore.NewRedisClient(app.config)
	if err != nil {
		return err
	}

	app.redisClient = client
	app.registerCleanup(func() {
		client.Close()
		logger.InfoCtx(app.ctx, "Redis connection has been closed")
	})

	return nil
}

// initMySQL initializes the optional archive datastore
func (app *Application) initMySQL() error {
	if !app.config.MySQL.Enabled {
		logger.InfoCtx(app.ctx, "MySQL not enabled, unit archive is disabled")
		return nil
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		app.config.MySQL.User,
		app.config.MySQL.Password,
		app.config.MySQL.Host,
		app.config.MySQL.Port,
		app.config.MySQL.Database,
	)

	ds, err := mysqlstore.NewDatastore(dsn)
	if err != nil {
		return err
	}

	app.datastore = ds
	app.registerCleanup(func() {
		ds.Close()
		logger.InfoCtx(app.ctx, "MySQL connection has been closed")
	})

	return nil
}

// initQueue initializes the archive queue. Without MySQL there is nowhere to
// archive to, so the queue is skipped entirely.
func (app *Application) initQueue() error {
	if app.datastore == nil {
		logger.InfoCtx(app.ctx, "Archive datastore not available, skipping queue initialization")
		return nil
	}

	manager, err := queue.NewManager(app.config)
	if err != nil {
		return err
	}

	app.queueManager = manager
	app.registerCleanup(func() {
		manager.Close()
		logger.InfoCtx(app.ctx, "Queue client has been closed")
	})

	return nil
}

// initEngine initializes the attribution engine and the sample source
func (app *Application) initEngine() error {
	app.sampler = sampler.New(app.config.Monitor)
	app.engine = monitor.NewEngine(monitor.EngineConfig{
		HistorySize: app.config.Monitor.HistorySize,
		UnitLogSize: app.config.Monitor.UnitLogSize,
	})
	return nil
}

// initServices initializes service layer
func (app *Application) initServices() error {
	app.monitorService = service.NewMonitorService(app.engine, app.sampler)
	app.settingsService = service.NewSettingsService(redisstore.NewSettingsRepository(app.redisClient))

	// Archive service only exists with a datastore and queue behind it
	if app.datastore != nil && app.queueManager != nil {
		repo := mysqlstore.NewUnitMetricsRepository(app.datastore)
		app.archiveService = service.NewArchiveService(app.queueManager, repo)

		// The archive service observes the engine and consumes its own queue
		app.engine.Subscribe(app.archiveService)
		app.queueManager.RegisterHandler(queue.TypeArchiveUnit, asynq.HandlerFunc(app.archiveService.HandleArchiveTask))
	}

	return nil
}

// initHandlers initializes handler layer
func (app *Application) initHandlers() error {
	app.monitorHandler = handler.NewMonitorHandler(app.monitorService, app.settingsService)
	app.lifecycleHandler = handler.NewLifecycleHandler(app.engine)
	app.settingsHandler = handler.NewSettingsHandler(app.settingsService)
	app.streamHandler = handler.NewStreamHandler(app.engine)

	if app.archiveService != nil {
		app.archiveHandler = handler.NewArchiveHandler(app.archiveService)
		logger.InfoCtx(app.ctx, "Archive handler initialized")
	}

	return nil
}

// initHTTPServer initializes HTTP server
func (app *Application) initHTTPServer() error {
	// Initialize router
	r := router.NewRouter(app.monitorHandler, app.lifecycleHandler, app.settingsHandler, app.archiveHandler, app.streamHandler)

	// Set Gin mode
	gin.SetMode(app.config.Server.Mode)

	// Create Gin engine
	app.ginEngine = gin.New()
	app.ginEngine.Use(gin.Recovery())

	// Setup routes
	r.Setup(app.ginEngine)

	// Create HTTP server
	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.ginEngine,
	}

	return nil
}
