package ports

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for delivery
// assignment aggregates. Every attempt is stored, including rejected ones,
// so the assignment history of an order stays queryable.
type AssignmentRepository interface {
	// Add persists a new assignment aggregate to storage.
	Add(ctx context.Context, aggregate *assignment.DeliveryAssignment) error

	// Update persists changes to an existing assignment aggregate.
	Update(ctx context.Context, aggregate *assignment.DeliveryAssignment) error

	// Get retrieves an assignment aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*assignment.DeliveryAssignment, error)

	// GetAllByOrder retrieves every assignment attempt recorded for the
	// given order, oldest first.
	GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*assignment.DeliveryAssignment, error)
}
