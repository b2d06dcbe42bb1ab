package driver

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the availability state of a driver.
//
//	Available <──> Busy        (reserve on assignment accept / release on delivery)
//	Available <──> Offline     (driver going off and on shift)
//
// A Busy driver is bound to exactly one accepted, not yet delivered
// assignment; an Offline driver is never considered for dispatch.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Available indicates the driver can be considered for dispatch.
	Available

	// Busy indicates the driver is bound to an active assignment.
	Busy

	// Offline indicates the driver is off shift and never dispatched.
	Offline
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Available: "Available",
		Busy:      "Busy",
		Offline:   "Offline",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Available: "Available",
		Busy:      "Busy",
		Offline:   "Offline",
	}
}

// Validate checks if the Status value is valid.
// Valid statuses are: Available, Busy, Offline.
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
