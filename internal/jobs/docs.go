// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the order lifecycle.
//
// # Available Jobs
//
// 1. DelayedConfirmationJob - Runs every 15 seconds to auto-confirm postponed
// orders whose delayed timestamp has elapsed
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(delayedHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep uses the cron expression "*/15 * * * * *", running every fifteen
// seconds. A short interval keeps the gap between the delayed timestamp and
// the actual confirmation small without hammering the database.
//
// # Error Handling
//
// - Sweep errors are logged and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
