package commands

import (
	"context"
	"errors"
	"strconv"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels an order and reports the penalty charged.
// When a driver had already accepted the order's assignment, the driver's
// released state is persisted in the same transaction; the live pool
// reservation is dropped only after the commit.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	pool       *services.DriverPool
	notifier   ports.EventNotifier
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	pool *services.DriverPool,
	notifier ports.EventNotifier,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		pool:       pool,
		notifier:   notifier,
	}
}

// Handle cancels the order and returns the penalty charged: zero before
// preparation started, the fixed late penalty once the kitchen is working.
// Cancelling after pickup fails with an InvalidTransitionError.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return 0, err
	}

	penalty, err := ord.Cancel()
	if err != nil {
		return 0, err
	}

	// A driver bound before the cancellation is let go. The assignment
	// record keeps its history; the order's Cancelled status marks it dead.
	var releasedDriver *driver.Driver
	if assignmentID := ord.Assignment(); assignmentID != nil {
		asg, getErr := uow.AssignmentRepository().Get(ctx, *assignmentID)
		if getErr != nil {
			return 0, getErr
		}

		if asg.Status() == assignment.Accepted {
			drv, poolErr := h.pool.Get(asg.DriverID())
			if poolErr != nil {
				return 0, poolErr
			}
			freed, restoreErr := driver.RestoreDriver(
				drv.ID(), drv.Name(), drv.Phone(), drv.Vehicle(), drv.Location(), driver.Available)
			if restoreErr != nil {
				return 0, restoreErr
			}
			if updErr := uow.DriverRepository().Update(ctx, freed); updErr != nil {
				return 0, updErr
			}
			releasedDriver = drv
		}
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	// The live pool reservation is dropped only after the commit, so a
	// failed transaction leaves it in place and the command retryable. An
	// already released driver matches the state just persisted.
	if releasedDriver != nil {
		if releaseErr := releasedDriver.Release(); releaseErr != nil &&
			!errors.Is(releaseErr, errs.ErrInvalidTransition) {
			return 0, releaseErr
		}
	}

	h.notifier.Notify(ports.Event{
		Kind:     ports.EventOrderStateChanged,
		EntityID: ord.ID().String(),
		Payload: map[string]string{
			"status":  ord.Status().String(),
			"penalty": strconv.Itoa(penalty),
		},
	})
	if releasedDriver != nil {
		h.notifier.Notify(ports.Event{
			Kind:     ports.EventDriverReleased,
			EntityID: releasedDriver.ID().String(),
			Payload:  map[string]string{"order_id": ord.ID().String()},
		})
	}

	return penalty, nil
}
