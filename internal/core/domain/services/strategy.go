package services

import (
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/order"
)

// AssignmentStrategy selects the next driver candidate for an order.
//
// Implementations receive only dispatchable drivers and return the chosen
// candidate, or nil when none of the candidates is suitable. Strategies must
// be deterministic over their inputs so that dispatch outcomes are
// reproducible in tests.
type AssignmentStrategy interface {
	// SelectDriver picks one driver from candidates for the given order.
	// Returns nil when no candidate is suitable.
	SelectDriver(ord *order.Order, candidates []*driver.Driver) (*driver.Driver, error)
}

// NearestDriverStrategy selects the dispatchable driver closest to the
// order's restaurant by great-circle distance. Ties go to the candidate
// seen first, which keeps selection deterministic for equal distances.
type NearestDriverStrategy struct{}

// NewNearestDriverStrategy creates a NearestDriverStrategy.
func NewNearestDriverStrategy() NearestDriverStrategy {
	return NearestDriverStrategy{}
}

// SelectDriver returns the candidate with the minimum distance to the
// order's restaurant location. Candidates without a known location are
// skipped. Returns nil when no candidate qualifies.
func (s NearestDriverStrategy) SelectDriver(ord *order.Order, candidates []*driver.Driver) (*driver.Driver, error) {
	if err := ord.Validate(); err != nil {
		return nil, err
	}

	var (
		best     *driver.Driver
		bestDist float64
	)

	for _, d := range candidates {
		if err := d.Validate(); err != nil {
			return nil, err
		}

		loc := d.Location()
		if loc == nil {
			continue
		}

		dist, err := loc.Distance(ord.RestaurantLocation())
		if err != nil {
			return nil, err
		}

		// strict less-than keeps the first-seen candidate on ties
		if best == nil || dist < bestDist {
			best = d
			bestDist = dist
		}
	}

	return best, nil
}
