package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// delayedSweepBatchSize bounds how many orders one sweep tick picks up.
const delayedSweepBatchSize = 100

// DelayedConfirmationJob manages the scheduled sweep of postponed orders.
// Runs every fifteen seconds to auto-confirm orders whose delayed timestamp
// has elapsed.
type DelayedConfirmationJob struct {
	handler commands.CompleteDelayedTransitionsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDelayedConfirmationJob creates a new job for the delayed confirmation sweep.
func NewDelayedConfirmationJob(
	handler commands.CompleteDelayedTransitionsCommandHandler,
	logger *slog.Logger,
) *DelayedConfirmationJob {
	return &DelayedConfirmationJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "delayed_confirmation_job"),
	}
}

// Start begins the sweep, running every fifteen seconds.
func (j *DelayedConfirmationJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewCompleteDelayedTransitionsCommand(delayedSweepBatchSize)
		if err != nil {
			j.logger.ErrorContext(ctx, "Failed to build delayed confirmation command", "error", err)
			return
		}

		applied, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Delayed confirmation sweep failed", "error", err)
			return
		}

		if applied > 0 {
			j.logger.InfoContext(ctx, "Delayed confirmation sweep completed", "orders_confirmed", applied)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delayed confirmation job started (running every 15 seconds)")
	return nil
}

// Stop stops the sweep job.
func (j *DelayedConfirmationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Delayed confirmation job stopped")
}
