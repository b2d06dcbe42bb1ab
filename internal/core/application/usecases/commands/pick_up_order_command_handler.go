package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/ports"
)

// ErrOrderHasNoAssignment is returned when a pickup or delivery is attempted
// on an order that was never bound to a driver.
var ErrOrderHasNoAssignment = errors.New("order has no bound assignment")

// PickUpOrderCommandHandler moves a ready order and its bound assignment to
// PickedUp in a single transaction.
type PickUpOrderCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.EventNotifier
}

// NewPickUpOrderCommandHandler creates a handler for order pickup.
func NewPickUpOrderCommandHandler(uowFactory UoWFactory, notifier ports.EventNotifier) PickUpOrderCommandHandler {
	return PickUpOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle loads the order and its assignment, applies the PickUp transition
// to both, and persists them atomically. Fails with ErrOrderHasNoAssignment
// when no driver was ever bound to the order.
func (h PickUpOrderCommandHandler) Handle(ctx context.Context, cmd PickUpOrderCommand) error {
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

	if err = asg.MarkPickedUp(); err != nil {
		return err
	}

	if err = ord.PickUp(); err != nil {
		return err
	}

	if err = assignmentRepo.Update(ctx, asg); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Notify(ports.Event{
		Kind:     ports.EventOrderStateChanged,
		EntityID: ord.ID().String(),
		Payload:  map[string]string{"status": ord.Status().String()},
	})

	return nil
}
