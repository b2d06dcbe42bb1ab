package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their lifecycle status.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its items and assignment binding.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllUndispatched retrieves orders in Accepted status without a bound
	// assignment. The dispatch job picks orders to assign from this set.
	GetAllUndispatched(ctx context.Context) ([]*order.Order, error)

	// GetAllUncompleted retrieves orders that have not reached a terminal
	// status (Delivered or Cancelled).
	GetAllUncompleted(ctx context.Context) ([]*order.Order, error)
}
