package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrRegisterDriverCommandIsNotConstructed = errors.New(
		"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
	)
	ErrDriverNameIsRequired    = errors.New("driver name is required")
	ErrDriverPhoneIsRequired   = errors.New("driver phone is required")
	ErrDriverVehicleIsRequired = errors.New("driver vehicle is required")
)

// RegisterDriverCommand represents a new driver joining the fleet.
type RegisterDriverCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	name     string
	phone    string
	vehicle  string

	guard guard.ConstructorGuard
}

// NewRegisterDriverCommand creates a command to register a new driver.
// Validates that the driver ID is valid and name, phone and vehicle are
// non-empty.
func NewRegisterDriverCommand(
	driverID kernel.UUID,
	name string,
	phone string,
	vehicle string,
) (RegisterDriverCommand, error) {
	driverCommand := RegisterDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		driverCommand.setDriverID(driverID),
		driverCommand.setName(name),
		driverCommand.setPhone(phone),
		driverCommand.setVehicle(vehicle),
	); err != nil {
		return RegisterDriverCommand{}, err
	}

	return driverCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

// DriverID returns the unique identifier for the driver.
func (c RegisterDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Name returns the driver's name.
func (c RegisterDriverCommand) Name() string {
	return c.name
}

// Phone returns the driver's contact number.
func (c RegisterDriverCommand) Phone() string {
	return c.phone
}

// Vehicle returns the driver's vehicle identifier.
func (c RegisterDriverCommand) Vehicle() string {
	return c.vehicle
}

func (c *RegisterDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *RegisterDriverCommand) setName(name string) error {
	if name == "" {
		return ErrDriverNameIsRequired
	}

	c.name = name
	return nil
}

func (c *RegisterDriverCommand) setPhone(phone string) error {
	if phone == "" {
		return ErrDriverPhoneIsRequired
	}

	c.phone = phone
	return nil
}

func (c *RegisterDriverCommand) setVehicle(vehicle string) error {
	if vehicle == "" {
		return ErrDriverVehicleIsRequired
	}

	c.vehicle = vehicle
	return nil
}
