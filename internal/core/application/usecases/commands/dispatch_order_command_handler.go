package commands

import (
	"context"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// DispatchOrderCommandHandler runs the dispatch loop for one order.
// Candidates come from the live driver pool; the accepted assignment, any
// rejected attempts, the bound order and the reserved driver are persisted
// in a single transaction.
//
// Example:
//
//	handler := NewDispatchOrderCommandHandler(uowFactory, dispatcher, pool, notifier)
//	cmd, _ := NewDispatchOrderCommand(orderID)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrNoDriverAvailable):
//	    log.Println("nobody to deliver this right now")
//	case errors.Is(err, services.ErrOrderCancelled):
//	    log.Println("order was cancelled while dispatching")
//	case err != nil:
//	    log.Printf("dispatch failed: %v", err)
//	}
type DispatchOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.Dispatcher
	pool       *services.DriverPool
	notifier   ports.EventNotifier
}

// NewDispatchOrderCommandHandler creates a handler for order dispatch.
func NewDispatchOrderCommandHandler(
	uowFactory UoWFactory,
	dispatcher services.Dispatcher,
	pool *services.DriverPool,
	notifier ports.EventNotifier,
) DispatchOrderCommandHandler {
	return DispatchOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		pool:       pool,
		notifier:   notifier,
	}
}

// Handle loads the order, runs the dispatch loop over the pool's
// dispatchable drivers, and persists the outcome. Rejected attempts are
// stored alongside the accepted assignment so the offer history survives.
func (h DispatchOrderCommandHandler) Handle(ctx context.Context, cmd DispatchOrderCommand) error {
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

	result, err := h.dispatcher.Dispatch(ord, h.pool.ListDispatchable())
	if err != nil {
		return err
	}

	// The run reserved a live pool driver and bound the order in memory,
	// but nothing is persisted yet. If any write or the commit fails, undo
	// both so the driver can be offered again and the order re-enters the
	// dispatch queue on the next run.
	persisted := false
	defer func() {
		if persisted {
			return
		}
		ord.UnbindAssignment()
		_ = result.Driver.Release()
	}()

	assignmentRepo := uow.AssignmentRepository()
	for _, attempt := range result.RejectedAttempts {
		if err = assignmentRepo.Add(ctx, attempt); err != nil {
			return err
		}
	}

	if err = assignmentRepo.Add(ctx, result.Assignment); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.DriverRepository().Update(ctx, result.Driver); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}
	persisted = true

	h.notifier.Notify(ports.Event{
		Kind:     ports.EventDriverAssigned,
		EntityID: result.Driver.ID().String(),
		Payload: map[string]string{
			"order_id":      ord.ID().String(),
			"assignment_id": result.Assignment.ID().String(),
		},
	})

	return nil
}
