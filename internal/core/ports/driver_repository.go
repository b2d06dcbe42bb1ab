// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, and the event notifier.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
// Provides methods for storing, retrieving, and querying driver entities
// with their last reported location and availability status.
type DriverRepository interface {
	// Add persists a new driver aggregate to storage.
	// The driver must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver aggregate.
	// The driver must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAll retrieves every registered driver regardless of status.
	// Used to warm the in-memory driver registry at startup.
	GetAll(ctx context.Context) ([]*driver.Driver, error)

	// GetAllAvailable retrieves drivers in Available status with a known
	// location, ordered by registration time.
	GetAllAvailable(ctx context.Context) ([]*driver.Driver, error)
}
