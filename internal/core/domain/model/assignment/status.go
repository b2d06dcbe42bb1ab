package assignment

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the state of a single driver-to-order binding attempt.
//
//	Assigned ──> Accepted ──> PickedUp ──> Delivered
//	    │
//	    └──> Rejected
//
// Rejected is terminal for the assignment object: the dispatch service
// creates a fresh assignment for the next candidate rather than reusing a
// rejected one. Delivered is the happy-path terminal state.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Assigned is the initial status: a driver has been selected and is
	// being asked to accept.
	Assigned

	// Accepted indicates the driver accepted and is bound to the order.
	Accepted

	// Rejected indicates the driver declined or could not be reserved.
	// Terminal for this assignment object.
	Rejected

	// PickedUp indicates the driver collected the order at the restaurant.
	PickedUp

	// Delivered indicates the driver completed the delivery.
	// Terminal state.
	Delivered
)

// Operation names used in transition errors.
const (
	opTryAccept     = "tryAccept"
	opMarkPickedUp  = "markPickedUp"
	opMarkDelivered = "markDelivered"
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Assigned:  "Assigned",
		Accepted:  "Accepted",
		Rejected:  "Rejected",
		PickedUp:  "PickedUp",
		Delivered: "Delivered",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Assigned:  "Assigned",
		Accepted:  "Accepted",
		Rejected:  "Rejected",
		PickedUp:  "PickedUp",
		Delivered: "Delivered",
	}
}

// Validate checks if the Status value is valid.
// Valid statuses are: Assigned, Accepted, Rejected, PickedUp, Delivered.
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
// Rejected and Delivered are the two terminal states.
func (s Status) IsTerminal() bool {
	return s == Rejected || s == Delivered
}
