// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the courier service.
//
// # Available Jobs
//
// 1. DispatchJob - Runs every five seconds to claim the oldest pending order
// for the closest available courier
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(dispatchHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Dispatch job ignores expected business errors (empty backlog, no free
// couriers, a claim lost to a concurrent manual claim)
// - Failed job starts will stop any already running jobs
package jobs
