package commands

import (
	"context"

	"dispatch/internal/core/domain/services"
)

// UpdateDriverLocationCommandHandler records a driver's location report.
// The live pool instance is updated so dispatch sees the new position
// immediately, and the snapshot is persisted for restarts.
type UpdateDriverLocationCommandHandler struct {
	uowFactory DriverUoWFactory
	pool       *services.DriverPool
}

// NewUpdateDriverLocationCommandHandler creates a handler for location reports.
func NewUpdateDriverLocationCommandHandler(
	uowFactory DriverUoWFactory,
	pool *services.DriverPool,
) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{
		uowFactory: uowFactory,
		pool:       pool,
	}
}

// Handle applies the report to the live driver and persists the snapshot.
func (h UpdateDriverLocationCommandHandler) Handle(ctx context.Context, cmd UpdateDriverLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	drv, err := h.pool.Get(cmd.DriverID())
	if err != nil {
		return err
	}

	if err = drv.UpdateLocation(cmd.Location()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DriverRepository().Update(ctx, drv); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
