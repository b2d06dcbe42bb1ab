package assignment

import (
	"errors"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrAssignmentIsNotConstructed is returned when a DeliveryAssignment was
	// not created through the NewDeliveryAssignment factory method.
	ErrAssignmentIsNotConstructed = errors.New(
		"DeliveryAssignment must be created via NewDeliveryAssignment constructor")

	// ErrDriverMismatch is returned when an accept attempt is made with a
	// driver other than the one the assignment was created for.
	ErrDriverMismatch = errors.New("driver does not match the assignment")
)

// DeliveryAssignment records one driver-to-order binding attempt.
// It is created by the dispatch service exactly once per candidate tried;
// an order may accumulate several assignments, but at most one reaches
// Accepted and becomes the order's active assignment.
//
// The assignment tracks a timestamp for every status it reaches, which is
// what downstream reporting and driver-settlement read.
type DeliveryAssignment struct {
	// id uniquely identifies the assignment attempt
	id kernel.UUID
	// orderID references the order being delivered
	orderID kernel.UUID
	// driverID references the candidate driver
	driverID kernel.UUID
	// status is the current state of this binding attempt
	status Status

	// assignedAt is when the candidate was selected
	assignedAt time.Time
	// acceptedAt is set when the driver accepts
	acceptedAt *time.Time
	// rejectedAt is set when the driver rejects or cannot be reserved
	rejectedAt *time.Time
	// pickedUpAt is set when the driver collects the order
	pickedUpAt *time.Time
	// deliveredAt is set when the delivery completes
	deliveredAt *time.Time

	// mu guards status and timestamps
	mu sync.Mutex
	// guard ensures the assignment was properly constructed
	guard guard.ConstructorGuard
}

// NewDeliveryAssignment creates a new assignment attempt binding the given
// driver candidate to the given order. The assignment starts in Assigned
// status with the selection timestamp recorded.
func NewDeliveryAssignment(id kernel.UUID, orderID kernel.UUID, driverID kernel.UUID) (*DeliveryAssignment, error) {
	a := &DeliveryAssignment{
		status:     Assigned,
		assignedAt: time.Now().UTC(),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setDriverID(driverID),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreDeliveryAssignment reconstructs a DeliveryAssignment from
// persistent storage including its status and all recorded timestamps.
func RestoreDeliveryAssignment(
	id kernel.UUID,
	orderID kernel.UUID,
	driverID kernel.UUID,
	status Status,
	assignedAt time.Time,
	acceptedAt *time.Time,
	rejectedAt *time.Time,
	pickedUpAt *time.Time,
	deliveredAt *time.Time,
) (*DeliveryAssignment, error) {
	a := &DeliveryAssignment{
		assignedAt:  assignedAt,
		acceptedAt:  acceptedAt,
		rejectedAt:  rejectedAt,
		pickedUpAt:  pickedUpAt,
		deliveredAt: deliveredAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setDriverID(driverID),
		a.setStatus(status),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the assignment was properly constructed.
func (a *DeliveryAssignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// IsEqual compares two assignments by their unique identifiers.
func (a *DeliveryAssignment) IsEqual(other *DeliveryAssignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment's unique identifier.
func (a *DeliveryAssignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the identifier of the order being delivered.
func (a *DeliveryAssignment) OrderID() kernel.UUID {
	return a.orderID
}

// DriverID returns the identifier of the candidate driver.
func (a *DeliveryAssignment) DriverID() kernel.UUID {
	return a.driverID
}

// Status returns the current status of the assignment.
func (a *DeliveryAssignment) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// AssignedAt returns when the candidate was selected.
func (a *DeliveryAssignment) AssignedAt() time.Time {
	return a.assignedAt
}

// AcceptedAt returns when the driver accepted, or nil.
func (a *DeliveryAssignment) AcceptedAt() *time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acceptedAt
}

// RejectedAt returns when the attempt was rejected, or nil.
func (a *DeliveryAssignment) RejectedAt() *time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rejectedAt
}

// PickedUpAt returns when the driver collected the order, or nil.
func (a *DeliveryAssignment) PickedUpAt() *time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pickedUpAt
}

// DeliveredAt returns when the delivery completed, or nil.
func (a *DeliveryAssignment) DeliveredAt() *time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deliveredAt
}

// TryAccept executes the driver-side accept attempt.
//
// The attempt succeeds only when the driver is willing AND can be reserved
// (atomically flipped from Available to Busy). On success the assignment
// moves to Accepted and the driver is Busy. On failure the assignment moves
// to Rejected and the driver's availability is left unchanged; a rejected
// assignment is dead, and the dispatch service creates a new one for the
// next candidate.
//
// Parameters:
//   - d: The driver the assignment was created for
//   - willing: The driver-side decision (from the acceptance policy)
//
// Returns:
//   - bool: true when accepted, false when rejected
//   - error: ErrDriverMismatch for a foreign driver, or an
//     InvalidTransitionError when the assignment is not in Assigned status
func (a *DeliveryAssignment) TryAccept(d *driver.Driver, willing bool) (bool, error) {
	if err := d.Validate(); err != nil {
		return false, err
	}
	if !d.ID().IsEqual(a.driverID) {
		return false, ErrDriverMismatch
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != Assigned {
		return false, errs.NewInvalidTransitionError(opTryAccept, a.status.String())
	}

	now := time.Now().UTC()

	if willing && d.Reserve() {
		a.status = Accepted
		a.acceptedAt = &now
		return true, nil
	}

	a.status = Rejected
	a.rejectedAt = &now
	return false, nil
}

// MarkPickedUp moves an Accepted assignment to PickedUp and records the
// timestamp. The caller drives the bound order's pickUp operation alongside.
// Returns an InvalidTransitionError from any other status.
func (a *DeliveryAssignment) MarkPickedUp() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != Accepted {
		return errs.NewInvalidTransitionError(opMarkPickedUp, a.status.String())
	}

	now := time.Now().UTC()
	a.status = PickedUp
	a.pickedUpAt = &now
	return nil
}

// MarkDelivered moves a PickedUp assignment to Delivered and records the
// timestamp. The caller drives the bound order's deliver operation and
// releases the driver alongside. Returns an InvalidTransitionError from any
// other status.
func (a *DeliveryAssignment) MarkDelivered() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != PickedUp {
		return errs.NewInvalidTransitionError(opMarkDelivered, a.status.String())
	}

	now := time.Now().UTC()
	a.status = Delivered
	a.deliveredAt = &now
	return nil
}

// setID validates and sets the assignment's unique identifier.
func (a *DeliveryAssignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

// setOrderID validates and sets the order reference.
func (a *DeliveryAssignment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	a.orderID = orderID
	return nil
}

// setDriverID validates and sets the driver reference.
func (a *DeliveryAssignment) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	a.driverID = driverID
	return nil
}

// setStatus validates and sets the status during restoration.
func (a *DeliveryAssignment) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	a.status = status
	return nil
}
