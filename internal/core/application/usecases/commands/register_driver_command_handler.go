package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/services"
)

// RegisterDriverCommandHandler registers a new driver.
// The driver is persisted and enters the live pool as Available; it becomes
// a dispatch candidate once its first location report arrives.
type RegisterDriverCommandHandler struct {
	uowFactory DriverUoWFactory
	pool       *services.DriverPool
}

// NewRegisterDriverCommandHandler creates a handler for driver registration.
func NewRegisterDriverCommandHandler(
	uowFactory DriverUoWFactory,
	pool *services.DriverPool,
) RegisterDriverCommandHandler {
	return RegisterDriverCommandHandler{
		uowFactory: uowFactory,
		pool:       pool,
	}
}

// Handle creates the driver aggregate, persists it, and registers the same
// instance in the live pool after the transaction commits.
func (h RegisterDriverCommandHandler) Handle(ctx context.Context, cmd RegisterDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	newDriver, err := driver.NewDriver(cmd.DriverID(), cmd.Name(), cmd.Phone(), cmd.Vehicle())
	if err != nil {
		return err
	}

	if err = uow.DriverRepository().Add(ctx, newDriver); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return h.pool.Register(newDriver)
}
