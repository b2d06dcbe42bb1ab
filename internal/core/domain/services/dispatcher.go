package services

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// DefaultMaxAttempts bounds how many candidates a single dispatch run will
// offer the order to before giving up.
const DefaultMaxAttempts = 3

// ErrNoDriverAvailable is the sentinel wrapped by NoDriverAvailableError.
// Use errors.Is with this sentinel to detect any dispatch exhaustion.
var ErrNoDriverAvailable = errors.New("no driver available")

// ErrOrderCancelled is returned when the order was cancelled while dispatch
// was in flight. Any driver reserved during the run has been released.
var ErrOrderCancelled = errors.New("order was cancelled during dispatch")

// Reasons a dispatch run can end without an accepted assignment.
const (
	// ReasonNoCandidates means no dispatchable driver was available to try.
	ReasonNoCandidates = "no dispatchable drivers"
	// ReasonAttemptsExhausted means every tried candidate rejected the order.
	ReasonAttemptsExhausted = "all candidates rejected within attempt limit"
)

// NoDriverAvailableError reports why a dispatch run found no driver.
// The Reason field distinguishes an empty candidate pool from a pool whose
// candidates all rejected the order.
type NoDriverAvailableError struct {
	Reason string
}

// NewNoDriverAvailableError creates a NoDriverAvailableError with the given reason.
func NewNoDriverAvailableError(reason string) *NoDriverAvailableError {
	return &NoDriverAvailableError{Reason: reason}
}

func (e *NoDriverAvailableError) Error() string {
	return fmt.Sprintf("no driver available: %s", e.Reason)
}

func (e *NoDriverAvailableError) Unwrap() error {
	return ErrNoDriverAvailable
}

// AcceptancePolicy models the driver-side decision to take an offered order.
// The dispatch loop consults the policy once per candidate; an unwilling
// driver produces a rejected assignment and the loop moves on.
type AcceptancePolicy interface {
	Decide(d *driver.Driver, ord *order.Order) bool
}

// AlwaysAcceptPolicy is the default policy: every offered driver accepts.
type AlwaysAcceptPolicy struct{}

// Decide always reports the driver as willing.
func (AlwaysAcceptPolicy) Decide(*driver.Driver, *order.Order) bool { return true }

// DispatchResult carries the outcome of a successful dispatch run.
type DispatchResult struct {
	// Assignment is the accepted assignment bound to the order.
	Assignment *assignment.DeliveryAssignment
	// Driver is the reserved driver, now Busy.
	Driver *driver.Driver
	// RejectedAttempts holds the assignments created for candidates that
	// declined before one accepted. Callers persist these for reporting.
	RejectedAttempts []*assignment.DeliveryAssignment
}

// Dispatcher is the domain service that binds an order to a driver.
//
// Each run offers the order to candidates chosen by the strategy, one at a
// time, creating a fresh DeliveryAssignment per attempt. A rejection removes
// the candidate and the loop retries with the next one, up to maxAttempts.
// Acceptance reserves the driver atomically; the run then re-checks that the
// order was not cancelled in the meantime before binding the assignment.
type Dispatcher struct {
	strategy    AssignmentStrategy
	policy      AcceptancePolicy
	maxAttempts int
}

// NewDispatcher creates a Dispatcher with the given strategy, acceptance
// policy and attempt bound. A nil strategy defaults to NearestDriverStrategy,
// a nil policy to AlwaysAcceptPolicy, and a non-positive maxAttempts to
// DefaultMaxAttempts.
func NewDispatcher(strategy AssignmentStrategy, policy AcceptancePolicy, maxAttempts int) Dispatcher {
	if strategy == nil {
		strategy = NewNearestDriverStrategy()
	}
	if policy == nil {
		policy = AlwaysAcceptPolicy{}
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return Dispatcher{
		strategy:    strategy,
		policy:      policy,
		maxAttempts: maxAttempts,
	}
}

// Dispatch runs the assignment loop for the given order over the given
// candidates.
//
// Parameters:
//   - ord: The order to dispatch (must be in Accepted status)
//   - candidates: Drivers to consider; non-dispatchable ones are filtered out
//
// Returns:
//   - *DispatchResult: The accepted assignment, the reserved driver, and any
//     rejected attempts made along the way
//   - error: A NoDriverAvailableError when the run ends without acceptance,
//     ErrOrderCancelled when the order was cancelled mid-run, or a
//     validation/transition error
func (disp Dispatcher) Dispatch(ord *order.Order, candidates []*driver.Driver) (*DispatchResult, error) {
	if err := ord.Validate(); err != nil {
		return nil, err
	}

	remaining := make([]*driver.Driver, 0, len(candidates))
	for _, d := range candidates {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if d.IsDispatchable() {
			remaining = append(remaining, d)
		}
	}

	if len(remaining) == 0 {
		return nil, NewNoDriverAvailableError(ReasonNoCandidates)
	}

	rejected := make([]*assignment.DeliveryAssignment, 0, disp.maxAttempts)

	for attempt := 0; attempt < disp.maxAttempts; attempt++ {
		candidate, err := disp.strategy.SelectDriver(ord, remaining)
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			return nil, NewNoDriverAvailableError(ReasonNoCandidates)
		}

		attemptAssignment, err := assignment.NewDeliveryAssignment(kernel.NewUUID(), ord.ID(), candidate.ID())
		if err != nil {
			return nil, err
		}

		accepted, err := attemptAssignment.TryAccept(candidate, disp.policy.Decide(candidate, ord))
		if err != nil {
			return nil, err
		}

		if !accepted {
			rejected = append(rejected, attemptAssignment)
			remaining = removeDriver(remaining, candidate)
			continue
		}

		// The driver is reserved. The order may have been cancelled while
		// the candidate was being offered; let the reservation go in that
		// case instead of binding a dead order.
		if ord.Status() == order.Cancelled {
			if releaseErr := candidate.Release(); releaseErr != nil {
				return nil, releaseErr
			}
			return nil, ErrOrderCancelled
		}

		if err = ord.BindAssignment(attemptAssignment.ID()); err != nil {
			if releaseErr := candidate.Release(); releaseErr != nil {
				return nil, errors.Join(err, releaseErr)
			}
			return nil, err
		}

		return &DispatchResult{
			Assignment:       attemptAssignment,
			Driver:           candidate,
			RejectedAttempts: rejected,
		}, nil
	}

	return nil, NewNoDriverAvailableError(ReasonAttemptsExhausted)
}

// removeDriver returns candidates without the given driver, preserving order.
func removeDriver(candidates []*driver.Driver, d *driver.Driver) []*driver.Driver {
	out := candidates[:0]
	for _, c := range candidates {
		if !c.IsEqual(d) {
			out = append(out, c)
		}
	}
	return out
}
