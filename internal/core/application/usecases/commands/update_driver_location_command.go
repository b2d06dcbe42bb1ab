package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateDriverLocationCommandIsNotConstructed = errors.New(
	"UpdateDriverLocationCommand must be created via NewUpdateDriverLocationCommand constructor",
)

// UpdateDriverLocationCommand represents a location report for a driver.
// Reports arrive from the external location provider.
type UpdateDriverLocationCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	location kernel.Coordinate

	guard guard.ConstructorGuard
}

// NewUpdateDriverLocationCommand creates a command carrying a location report.
func NewUpdateDriverLocationCommand(
	driverID kernel.UUID,
	location kernel.Coordinate,
) (UpdateDriverLocationCommand, error) {
	locationCommand := UpdateDriverLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		locationCommand.setDriverID(driverID),
		locationCommand.setLocation(location),
	); err != nil {
		return UpdateDriverLocationCommand{}, err
	}

	return locationCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverLocationCommandIsNotConstructed)
}

// DriverID returns the identifier of the reporting driver.
func (c UpdateDriverLocationCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Location returns the reported coordinate.
func (c UpdateDriverLocationCommand) Location() kernel.Coordinate {
	return c.location
}

func (c *UpdateDriverLocationCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *UpdateDriverLocationCommand) setLocation(location kernel.Coordinate) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
