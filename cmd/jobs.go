package main

import (
	"kikostats/internal/jobs"
	"kikostats/pkg/logger"
)

func (app *Application) initJobs() error {
	manager := jobs.NewManager(app.ctx)

	// Archive retention cleanup only makes sense with an archive behind it
	if app.archiveService != nil {
		manager.Register(jobs.NewArchiveCleanupJob(app.archiveService))
	} else {
		logger.InfoCtx(app.ctx, "Archive service not available, no retention jobs registered")
	}

	app.jobsManager = manager
	return nil
}
