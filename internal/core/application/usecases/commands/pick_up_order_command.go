package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrPickUpOrderCommandIsNotConstructed = errors.New(
	"PickUpOrderCommand must be created via NewPickUpOrderCommand constructor",
)

// PickUpOrderCommand represents the driver collecting a ready order.
type PickUpOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewPickUpOrderCommand creates a command to pick up the given order.
func NewPickUpOrderCommand(orderID kernel.UUID) (PickUpOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return PickUpOrderCommand{}, err
	}

	return PickUpOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PickUpOrderCommand) Validate() error {
	return c.guard.Validate(ErrPickUpOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to pick up.
func (c PickUpOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
