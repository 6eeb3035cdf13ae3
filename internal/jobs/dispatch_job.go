package jobs

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
)

// DispatchJob drains the pending backlog on a schedule. Each tick takes the
// oldest pending order and claims it for the closest available courier.
type DispatchJob struct {
	handler commands.DispatchOrderCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDispatchJob creates the scheduled dispatch job.
func NewDispatchJob(handler commands.DispatchOrderCommandHandler, logger *slog.Logger) *DispatchJob {
	return &DispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "dispatch_job"),
	}
}

// Start begins the dispatch job, running every five seconds.
func (j *DispatchJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewDispatchOrderCommand()
		if err != nil {
			j.logger.ErrorContext(ctx, "Failed to build dispatch command", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// An empty backlog, an empty courier pool and a lost claim
			// race are all expected between ticks.
			if errors.Is(err, commands.ErrNoPendingOrders) ||
				errors.Is(err, commands.ErrNoAvailableCouriers) ||
				errors.Is(err, order.ErrAlreadyAssigned) {
				return
			}
			j.logger.ErrorContext(ctx, "Dispatch job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch job started (running every 5 seconds)")
	return nil
}

// Stop stops the dispatch job.
func (j *DispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Dispatch job stopped")
}
