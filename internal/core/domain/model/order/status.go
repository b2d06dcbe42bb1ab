package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct business workflow.
//
// State transitions:
//
//	Placed ──> Accepted ──> Preparing ──> Ready ──> PickedUp ──> Delivered
//	   │           │            │           │
//	   └───────────┴────────────┴───────────┴──> Cancelled
//
// Cancellation is allowed from any state before pickup. Once an order is
// PickedUp or Delivered it can no longer be cancelled. Delivered and
// Cancelled are terminal states.
//
// Status is a value object that validates state transitions
// and provides string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Placed is the initial status when a customer submits an order.
	Placed

	// Accepted indicates the restaurant has accepted the order.
	// Orders in this status are eligible for driver dispatch.
	Accepted

	// Preparing indicates the restaurant has started preparation work.
	// Cancelling from this point on incurs the cancellation penalty.
	Preparing

	// Ready indicates the order is prepared and waiting for pickup.
	Ready

	// PickedUp indicates the assigned driver has collected the order.
	// Cancellation is permanently disallowed from this point.
	PickedUp

	// Delivered indicates the order reached the customer.
	// This is a terminal state with no further transitions allowed.
	Delivered

	// Cancelled indicates the order was cancelled before pickup.
	// This is a terminal state with no further transitions allowed.
	Cancelled
)

// Operation names used in transition errors. They identify which lifecycle
// operation was attempted when a transition is rejected.
const (
	opAccept           = "accept"
	opStartPreparation = "startPreparation"
	opMarkReady        = "markReady"
	opPickUp           = "pickUp"
	opDeliver          = "deliver"
	opCancel           = "cancel"
	opBindAssignment   = "bindAssignment"
)

// transitions is the closed transition table keyed by (operation, current
// status). An operation invoked from a status not listed for it is rejected
// with InvalidTransitionError and leaves the status unchanged. Keeping the
// table total over all reachable states makes the full transition set
// statically enumerable and exhaustively testable.
var transitions = map[string]map[Status]Status{
	opAccept:           {Placed: Accepted},
	opStartPreparation: {Accepted: Preparing},
	opMarkReady:        {Preparing: Ready},
	opPickUp:           {Ready: PickedUp},
	opDeliver:          {PickedUp: Delivered},
	opCancel: {
		Placed:    Cancelled,
		Accepted:  Cancelled,
		Preparing: Cancelled,
		Ready:     Cancelled,
	},
}

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Placed:    "Placed",
		Accepted:  "Accepted",
		Preparing: "Preparing",
		Ready:     "Ready",
		PickedUp:  "PickedUp",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Placed:    "Placed",
		Accepted:  "Accepted",
		Preparing: "Preparing",
		Ready:     "Ready",
		PickedUp:  "PickedUp",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Placed, Accepted, Preparing, Ready, PickedUp,
// Delivered, Cancelled. Unknown (0) and any other values are invalid.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
//
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Invalid status values return "Unknown". This method implements the
// fmt.Stringer interface and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions.
// Delivered and Cancelled are the two terminal states.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// transition applies the given operation to the current status using the
// transition table. Returns the destination status, or an
// InvalidTransitionError carrying the attempted operation and current status
// when the operation is not allowed.
func (s Status) transition(operation string) (Status, error) {
	next, ok := transitions[operation][s]
	if !ok {
		return 0, errs.NewInvalidTransitionError(operation, s.String())
	}
	return next, nil
}

// Accept transitions the status to Accepted.
//
// Valid transitions:
//   - Placed -> Accepted
//
// Returns (Accepted, nil) on a valid transition, or (0, error) if the
// transition is not allowed from the current status.
func (s Status) Accept() (Status, error) {
	return s.transition(opAccept)
}

// StartPreparation transitions the status to Preparing.
//
// Valid transitions:
//   - Accepted -> Preparing
//
// Returns (Preparing, nil) on a valid transition, or (0, error) if the
// transition is not allowed from the current status.
func (s Status) StartPreparation() (Status, error) {
	return s.transition(opStartPreparation)
}

// MarkReady transitions the status to Ready.
//
// Valid transitions:
//   - Preparing -> Ready
//
// Returns (Ready, nil) on a valid transition, or (0, error) if the
// transition is not allowed from the current status.
func (s Status) MarkReady() (Status, error) {
	return s.transition(opMarkReady)
}

// PickUp transitions the status to PickedUp.
//
// Valid transitions:
//   - Ready -> PickedUp
//
// Returns (PickedUp, nil) on a valid transition, or (0, error) if the
// transition is not allowed from the current status.
func (s Status) PickUp() (Status, error) {
	return s.transition(opPickUp)
}

// Deliver transitions the status to Delivered.
//
// Valid transitions:
//   - PickedUp -> Delivered
//
// Returns (Delivered, nil) on a valid transition, or (0, error) if the
// transition is not allowed from the current status.
func (s Status) Deliver() (Status, error) {
	return s.transition(opDeliver)
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - Placed -> Cancelled
//   - Accepted -> Cancelled
//   - Preparing -> Cancelled
//   - Ready -> Cancelled
//
// PickedUp, Delivered and Cancelled reject cancellation: once the order has
// left the restaurant its cancellation window is permanently closed.
//
// Returns (Cancelled, nil) on a valid transition, or (0, error) if the
// transition is not allowed from the current status.
func (s Status) Cancel() (Status, error) {
	return s.transition(opCancel)
}
