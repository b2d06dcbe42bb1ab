// Package assignment implements the DeliveryAssignment aggregate.
//
// An assignment is one attempt to bind a driver to an order. The dispatch
// service creates a fresh assignment per candidate; a rejected assignment
// is never reused. Accepting an assignment reserves the driver atomically,
// which is the mechanism that keeps one driver from serving two orders.
package assignment
