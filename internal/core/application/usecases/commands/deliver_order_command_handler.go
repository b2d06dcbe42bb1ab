package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DeliverOrderCommandHandler completes a delivery: the order and its
// assignment move to Delivered and the driver's released state is persisted
// in the same transaction. The live pool reservation is dropped only after
// the commit, so a failed transaction leaves the command retryable.
type DeliverOrderCommandHandler struct {
	uowFactory UoWFactory
	pool       *services.DriverPool
	notifier   ports.EventNotifier
}

// NewDeliverOrderCommandHandler creates a handler for delivery completion.
// The pool supplies the live driver instance whose reservation is released.
func NewDeliverOrderCommandHandler(
	uowFactory UoWFactory,
	pool *services.DriverPool,
	notifier ports.EventNotifier,
) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{
		uowFactory: uowFactory,
		pool:       pool,
		notifier:   notifier,
	}
}

// Handle loads the order, its assignment and the live driver, applies the
// Deliver transition to the order and assignment, persists everything
// atomically, and then releases the driver back to the pool.
func (h DeliverOrderCommandHandler) Handle(ctx context.Context, cmd DeliverOrderCommand) error {
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

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	assignmentID := ord.Assignment()
	if assignmentID == nil {
		return ErrOrderHasNoAssignment
	}

	assignmentRepo := uow.AssignmentRepository()
	asg, err := assignmentRepo.Get(ctx, *assignmentID)
	if err != nil {
		return err
	}

	drv, err := h.pool.Get(asg.DriverID())
	if err != nil {
		return err
	}

	if err = asg.MarkDelivered(); err != nil {
		return err
	}

	if err = ord.Deliver(); err != nil {
		return err
	}

	if err = assignmentRepo.Update(ctx, asg); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	// The transaction persists the driver as Available, but the live pool
	// reservation stays in place until the commit succeeds. A failed
	// transaction then leaves the pool driver Busy and the command retryable.
	freed, err := driver.RestoreDriver(
		drv.ID(), drv.Name(), drv.Phone(), drv.Vehicle(), drv.Location(), driver.Available)
	if err != nil {
		return err
	}

	if err = uow.DriverRepository().Update(ctx, freed); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// An already released driver matches the state just persisted.
	if releaseErr := drv.Release(); releaseErr != nil && !errors.Is(releaseErr, errs.ErrInvalidTransition) {
		return releaseErr
	}

	h.notifier.Notify(ports.Event{
		Kind:     ports.EventOrderStateChanged,
		EntityID: ord.ID().String(),
		Payload:  map[string]string{"status": ord.Status().String()},
	})
	h.notifier.Notify(ports.Event{
		Kind:     ports.EventDriverReleased,
		EntityID: drv.ID().String(),
		Payload:  map[string]string{"order_id": ord.ID().String()},
	})

	return nil
}
