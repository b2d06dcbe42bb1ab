package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// AcceptOrderCommandHandler moves a placed order to Accepted.
// An accepted order becomes eligible for dispatch.
type AcceptOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.EventNotifier
}

// NewAcceptOrderCommandHandler creates a handler for order acceptance.
func NewAcceptOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.EventNotifier) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle loads the order, applies the Accept transition and persists it.
// Fails with an InvalidTransitionError when the order is not in Placed status.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
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

	if err = ord.Accept(); err != nil {
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
