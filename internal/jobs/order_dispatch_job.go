package jobs

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

// OrderDispatchJob manages the scheduled dispatch of accepted orders.
// Runs every second to offer undispatched orders to nearby drivers.
type OrderDispatchJob struct {
	uowFactory commands.UoWFactory
	handler    commands.DispatchOrderCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewOrderDispatchJob creates a new job for dispatching orders.
// Uses the unit of work factory to find accepted orders without an
// assignment and DispatchOrderCommandHandler to dispatch each of them.
func NewOrderDispatchJob(
	uowFactory commands.UoWFactory,
	handler commands.DispatchOrderCommandHandler,
	logger *slog.Logger,
) *OrderDispatchJob {
	return &OrderDispatchJob{
		uowFactory: uowFactory,
		handler:    handler,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "order_dispatch_job"),
	}
}

// Start begins the order dispatch job to run every second.
func (j *OrderDispatchJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		j.dispatchPending(ctx)
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order dispatch job started (running every second)")
	return nil
}

// Stop stops the order dispatch job.
func (j *OrderDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order dispatch job stopped")
}

// dispatchPending finds all undispatched orders and runs a dispatch round
// for each. A shortage of drivers is an expected state, not a failure; the
// order simply stays in the queue for the next tick.
func (j *OrderDispatchJob) dispatchPending(ctx context.Context) {
	uow := j.uowFactory.Create()

	orders, err := uow.OrderRepository().GetAllUndispatched(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to load undispatched orders", "error", err)
		return
	}

	for _, ord := range orders {
		cmd, cmdErr := commands.NewDispatchOrderCommand(ord.ID())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build dispatch command",
				"order_id", ord.ID().String(), "error", cmdErr)
			continue
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			if errors.Is(handleErr, services.ErrNoDriverAvailable) ||
				errors.Is(handleErr, services.ErrOrderCancelled) {
				continue
			}
			j.logger.ErrorContext(ctx, "Order dispatch failed",
				"order_id", ord.ID().String(), "error", handleErr)
		}
	}
}
