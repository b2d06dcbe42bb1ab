// Package services contains the dispatch domain services: the assignment
// strategy, the bounded retry dispatcher, and the live driver registry.
//
// The dispatcher offers an order to one candidate at a time, creating a
// fresh DeliveryAssignment per attempt. Acceptance reserves the driver
// atomically; rejection moves the loop to the next candidate until the
// attempt bound is hit. Candidate selection is pluggable through the
// AssignmentStrategy interface, with nearest-by-distance as the default.
package services
