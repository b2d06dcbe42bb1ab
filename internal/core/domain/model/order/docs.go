// Package order implements the Order aggregate and its lifecycle state
// machine for the dispatch domain.
//
// The aggregate enforces the full transition table of the order lifecycle
// (Placed, Accepted, Preparing, Ready, PickedUp, Delivered, Cancelled),
// the two-tier cancellation penalty, and the single-active-assignment
// invariant. All mutating operations are guarded by a per-order mutex so
// concurrent callers never observe a half-applied transition.
package order
