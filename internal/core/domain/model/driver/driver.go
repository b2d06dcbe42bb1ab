package driver

import (
	"errors"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for driver operations.
var (
	// ErrNameIsRequired is returned when attempting to create a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when attempting to create a driver without contact info.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrVehicleIsRequired is returned when attempting to create a driver without a vehicle.
	ErrVehicleIsRequired = errs.NewValueIsRequiredError("vehicle")
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")
)

// Driver represents a delivery driver in the system.
// It is an aggregate root that manages driver identity, the last reported
// location, and the availability flag that dispatch races over.
//
// Key responsibilities:
//   - Managing driver identity (ID, name, phone, vehicle)
//   - Recording location reports from the external location provider
//   - Atomic reservation of the driver for exactly one assignment at a time
//
// Business rules:
//   - Driver must have a valid UUID, non-empty name, phone and vehicle
//   - Location is unknown until the first report arrives; a driver with no
//     known location is never a dispatch candidate
//   - Reserve is a check-and-set from Available to Busy, so two concurrent
//     assignments can never both acquire the same driver
//   - Release returns a Busy driver to Available when a delivery completes
//     or an acquired driver has to be let go
//
// All reads and writes of mutable state (location, status) take the
// driver's own mutex; each driver carries its own lock rather than the
// registry locking globally.
type Driver struct {
	// id uniquely identifies the driver
	id kernel.UUID
	// name is the human-readable name of the driver
	name string
	// phone is the driver's contact number
	phone string
	// vehicle identifies the vehicle used for deliveries
	vehicle string
	// location is the last reported position (nil until first report)
	location *kernel.Coordinate
	// status is the current availability state
	status Status
	// mu guards location and status
	mu sync.Mutex
	// guard ensures the driver was properly constructed
	guard guard.ConstructorGuard
}

// NewDriver creates a new Driver with the specified parameters.
// This is the only way to create a valid Driver instance. A freshly
// registered driver starts Available with no known location, so it becomes
// a dispatch candidate only after its first location report.
//
// Parameters:
//   - id: Unique identifier for the driver (must be a valid UUID)
//   - name: Human-readable name (must be non-empty)
//   - phone: Contact number (must be non-empty)
//   - vehicle: Vehicle identifier (must be non-empty)
//
// Returns:
//   - *Driver: A fully initialized driver
//   - error: Validation error if any parameter is invalid
func NewDriver(id kernel.UUID, name string, phone string, vehicle string) (*Driver, error) {
	driver := &Driver{
		status: Available,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		driver.setID(id),
		driver.setName(name),
		driver.setPhone(phone),
		driver.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return driver, nil
}

// RestoreDriver reconstructs a Driver aggregate from persistent storage,
// including its last reported location and availability status. The restored
// driver behaves identically to one created through normal domain operations.
func RestoreDriver(
	id kernel.UUID,
	name string,
	phone string,
	vehicle string,
	location *kernel.Coordinate,
	status Status,
) (*Driver, error) {
	driver := &Driver{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		driver.setID(id),
		driver.setName(name),
		driver.setPhone(phone),
		driver.setVehicle(vehicle),
		driver.setLocation(location),
		driver.setStatus(status),
	); err != nil {
		return nil, err
	}

	return driver, nil
}

// IsEqual compares two drivers for equality based on their unique identifiers.
func (d *Driver) IsEqual(other *Driver) bool {
	if other == nil {
		return false
	}
	return d.id.IsEqual(other.id)
}

// Validate checks if the Driver was properly constructed using a constructor.
// The zero value of Driver is invalid and will fail this validation.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// ID returns the unique identifier of the driver.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the human-readable name of the driver.
func (d *Driver) Name() string {
	return d.name
}

// Phone returns the driver's contact number.
func (d *Driver) Phone() string {
	return d.phone
}

// Vehicle returns the driver's vehicle identifier.
func (d *Driver) Vehicle() string {
	return d.vehicle
}

// Location returns the driver's last reported location.
// Returns nil if no location report has arrived yet.
func (d *Driver) Location() *kernel.Coordinate {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.location
}

// Status returns the driver's current availability status.
func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// IsDispatchable reports whether the driver can be offered an assignment
// right now: Available with a known location. The check is atomic but the
// answer may go stale immediately; callers must tolerate a later Reserve
// failing (the dispatch retry loop does).
func (d *Driver) IsDispatchable() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status == Available && d.location != nil
}

// UpdateLocation records a location report from the external location
// provider. The coordinate must be valid.
func (d *Driver) UpdateLocation(location kernel.Coordinate) error {
	if err := location.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.location = &location
	return nil
}

// Reserve atomically flips the driver from Available to Busy.
// Returns true when the reservation succeeded. Returns false when the
// driver is Busy or Offline, in which case nothing changes: a driver can
// never be reserved into two concurrent assignments.
func (d *Driver) Reserve() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status != Available {
		return false
	}

	d.status = Busy
	return true
}

// Release returns a Busy driver to Available, either because its delivery
// completed or because an acquired reservation has to be abandoned.
// Releasing a driver that is not Busy fails with an InvalidTransitionError
// and changes nothing.
func (d *Driver) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status != Busy {
		return errs.NewInvalidTransitionError("release", d.status.String())
	}

	d.status = Available
	return nil
}

// GoOffline takes an Available driver off shift. A Busy driver cannot go
// offline while bound to an active assignment.
func (d *Driver) GoOffline() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status != Available {
		return errs.NewInvalidTransitionError("goOffline", d.status.String())
	}

	d.status = Offline
	return nil
}

// GoOnline brings an Offline driver back on shift as Available.
func (d *Driver) GoOnline() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status != Offline {
		return errs.NewInvalidTransitionError("goOnline", d.status.String())
	}

	d.status = Available
	return nil
}

// setID validates and sets the driver's unique identifier.
func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

// setName validates and sets the driver's name.
func (d *Driver) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

// setPhone validates and sets the driver's contact number.
func (d *Driver) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}
	d.phone = phone
	return nil
}

// setVehicle validates and sets the driver's vehicle identifier.
func (d *Driver) setVehicle(vehicle string) error {
	if vehicle == "" {
		return ErrVehicleIsRequired
	}
	d.vehicle = vehicle
	return nil
}

// setLocation validates and sets the last reported location during restoration.
func (d *Driver) setLocation(location *kernel.Coordinate) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = location
	return nil
}

// setStatus validates and sets the availability status during restoration.
func (d *Driver) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	d.status = status
	return nil
}
