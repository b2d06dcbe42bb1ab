// Package driver implements the Driver aggregate for the dispatch domain.
//
// A driver carries identity and contact details, the last location reported
// by the external location provider, and an availability flag. Reservation
// (Available to Busy) is an atomic check-and-set guarded by a per-driver
// mutex, which is what guarantees a driver is never accepted into two
// concurrent assignments.
package driver
