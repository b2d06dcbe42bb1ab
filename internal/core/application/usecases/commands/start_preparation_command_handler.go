package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// StartPreparationCommandHandler moves an accepted order to Preparing.
// From this point on a cancellation charges the late penalty.
type StartPreparationCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.EventNotifier
}

// NewStartPreparationCommandHandler creates a handler for starting preparation.
func NewStartPreparationCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.EventNotifier,
) StartPreparationCommandHandler {
	return StartPreparationCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle loads the order, applies the StartPreparation transition and persists it.
func (h StartPreparationCommandHandler) Handle(ctx context.Context, cmd StartPreparationCommand) error {
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

	if err = ord.StartPreparation(); err != nil {
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
