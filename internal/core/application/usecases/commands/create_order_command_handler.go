package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for placing orders.
// Creates new orders in Placed status and announces the state change.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.EventNotifier
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// Requires an OrderUoWFactory for transactional persistence and an
// EventNotifier for announcing the new order.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.EventNotifier) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the order placement command.
// Creates the order in Placed status and persists it. The state change
// event is published only after the transaction commits.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	newOrder, err := order.NewOrder(
		cmd.OrderID(), cmd.CustomerID(), cmd.RestaurantID(), cmd.RestaurantLocation(), cmd.Items())
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Notify(ports.Event{
		Kind:     ports.EventOrderStateChanged,
		EntityID: newOrder.ID().String(),
		Payload:  map[string]string{"status": newOrder.Status().String()},
	})

	return nil
}
