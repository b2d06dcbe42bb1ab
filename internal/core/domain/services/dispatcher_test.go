package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restaurant sits at the origin of the test grid.
var restaurantLocation, _ = kernel.NewCoordinate(40.0, -74.0)

func acceptedOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem("noodles", 2, 950)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		restaurantLocation, []order.Item{item})
	require.NoError(t, err)
	require.NoError(t, o.Accept())
	return o
}

func driverAt(t *testing.T, name string, lat, lon float64) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), name, "+15550000", "bike")
	require.NoError(t, err)
	loc, err := kernel.NewCoordinate(lat, lon)
	require.NoError(t, err)
	require.NoError(t, d.UpdateLocation(loc))
	return d
}

// rejectDrivers is an AcceptancePolicy that declines for the listed drivers.
type rejectDrivers map[string]bool

func (p rejectDrivers) Decide(d *driver.Driver, _ *order.Order) bool {
	return !p[d.Name()]
}

func TestNearestDriverStrategy(t *testing.T) {
	strategy := services.NewNearestDriverStrategy()

	t.Run("picks the closest candidate", func(t *testing.T) {
		o := acceptedOrder(t)
		far := driverAt(t, "far", 41.0, -74.0)
		near := driverAt(t, "near", 40.01, -74.0)

		picked, err := strategy.SelectDriver(o, []*driver.Driver{far, near})

		require.NoError(t, err)
		require.NotNil(t, picked)
		assert.Equal(t, "near", picked.Name())
	})

	t.Run("first seen wins on equal distance", func(t *testing.T) {
		o := acceptedOrder(t)
		first := driverAt(t, "first", 40.1, -74.0)
		second := driverAt(t, "second", 40.1, -74.0)

		picked, err := strategy.SelectDriver(o, []*driver.Driver{first, second})

		require.NoError(t, err)
		require.NotNil(t, picked)
		assert.Equal(t, "first", picked.Name())
	})

	t.Run("skips candidates without a location", func(t *testing.T) {
		o := acceptedOrder(t)
		unlocated, err := driver.NewDriver(kernel.NewUUID(), "ghost", "+15550000", "bike")
		require.NoError(t, err)

		picked, err := strategy.SelectDriver(o, []*driver.Driver{unlocated})

		require.NoError(t, err)
		assert.Nil(t, picked)
	})

	t.Run("returns nil for empty candidates", func(t *testing.T) {
		o := acceptedOrder(t)

		picked, err := strategy.SelectDriver(o, nil)

		require.NoError(t, err)
		assert.Nil(t, picked)
	})
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("assigns the nearest driver and reserves it", func(t *testing.T) {
		disp := services.NewDispatcher(nil, nil, 0)
		o := acceptedOrder(t)
		far := driverAt(t, "far", 41.0, -74.0)
		near := driverAt(t, "near", 40.01, -74.0)

		result, err := disp.Dispatch(o, []*driver.Driver{far, near})

		require.NoError(t, err)
		assert.Equal(t, "near", result.Driver.Name())
		assert.Equal(t, driver.Busy, result.Driver.Status())
		assert.Equal(t, driver.Available, far.Status())
		assert.Equal(t, assignment.Accepted, result.Assignment.Status())
		assert.True(t, result.Assignment.OrderID().IsEqual(o.ID()))
		assert.True(t, result.Assignment.DriverID().IsEqual(near.ID()))
		require.NotNil(t, o.Assignment())
		assert.True(t, o.Assignment().IsEqual(result.Assignment.ID()))
		assert.Empty(t, result.RejectedAttempts)
	})

	t.Run("retries with the next candidate after a rejection", func(t *testing.T) {
		policy := rejectDrivers{"near": true}
		disp := services.NewDispatcher(nil, policy, 3)
		o := acceptedOrder(t)
		near := driverAt(t, "near", 40.01, -74.0)
		far := driverAt(t, "far", 41.0, -74.0)

		result, err := disp.Dispatch(o, []*driver.Driver{near, far})

		require.NoError(t, err)
		assert.Equal(t, "far", result.Driver.Name())
		assert.Equal(t, driver.Available, near.Status(), "rejection leaves the driver available")
		require.Len(t, result.RejectedAttempts, 1)
		assert.Equal(t, assignment.Rejected, result.RejectedAttempts[0].Status())
		assert.True(t, result.RejectedAttempts[0].DriverID().IsEqual(near.ID()))
	})

	t.Run("fails with no candidates reason when pool is empty", func(t *testing.T) {
		disp := services.NewDispatcher(nil, nil, 3)
		o := acceptedOrder(t)

		_, err := disp.Dispatch(o, nil)

		require.ErrorIs(t, err, services.ErrNoDriverAvailable)
		var noDriver *services.NoDriverAvailableError
		require.ErrorAs(t, err, &noDriver)
		assert.Equal(t, services.ReasonNoCandidates, noDriver.Reason)
	})

	t.Run("fails with no candidates reason when nothing is dispatchable", func(t *testing.T) {
		disp := services.NewDispatcher(nil, nil, 3)
		o := acceptedOrder(t)
		busy := driverAt(t, "busy", 40.01, -74.0)
		require.True(t, busy.Reserve())

		_, err := disp.Dispatch(o, []*driver.Driver{busy})

		var noDriver *services.NoDriverAvailableError
		require.ErrorAs(t, err, &noDriver)
		assert.Equal(t, services.ReasonNoCandidates, noDriver.Reason)
	})

	t.Run("fails with exhausted reason when every candidate rejects", func(t *testing.T) {
		policy := rejectDrivers{"a": true, "b": true}
		disp := services.NewDispatcher(nil, policy, 2)
		o := acceptedOrder(t)
		a := driverAt(t, "a", 40.01, -74.0)
		b := driverAt(t, "b", 40.02, -74.0)

		_, err := disp.Dispatch(o, []*driver.Driver{a, b})

		require.ErrorIs(t, err, services.ErrNoDriverAvailable)
		var noDriver *services.NoDriverAvailableError
		require.ErrorAs(t, err, &noDriver)
		assert.Equal(t, services.ReasonAttemptsExhausted, noDriver.Reason)
		assert.Nil(t, o.Assignment())
	})

	t.Run("attempt bound caps the number of offers", func(t *testing.T) {
		policy := rejectDrivers{"a": true, "b": true, "c": true}
		disp := services.NewDispatcher(nil, policy, 2)
		o := acceptedOrder(t)
		a := driverAt(t, "a", 40.01, -74.0)
		b := driverAt(t, "b", 40.02, -74.0)
		c := driverAt(t, "c", 40.03, -74.0)

		_, err := disp.Dispatch(o, []*driver.Driver{a, b, c})

		var noDriver *services.NoDriverAvailableError
		require.ErrorAs(t, err, &noDriver)
		assert.Equal(t, services.ReasonAttemptsExhausted, noDriver.Reason)
	})

	t.Run("releases the driver when the order was cancelled mid-run", func(t *testing.T) {
		// The policy callback runs after candidate selection and before the
		// reservation, which is exactly the window a cancellation can race into.
		o := acceptedOrder(t)
		cancelDuringOffer := policyFunc(func(d *driver.Driver, ord *order.Order) bool {
			_, err := ord.Cancel()
			require.NoError(t, err)
			return true
		})
		disp := services.NewDispatcher(nil, cancelDuringOffer, 3)
		d := driverAt(t, "near", 40.01, -74.0)

		_, err := disp.Dispatch(o, []*driver.Driver{d})

		require.ErrorIs(t, err, services.ErrOrderCancelled)
		assert.Equal(t, driver.Available, d.Status(), "reserved driver must be released")
		assert.Nil(t, o.Assignment())
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("rejects an order that already has an assignment", func(t *testing.T) {
		disp := services.NewDispatcher(nil, nil, 3)
		o := acceptedOrder(t)
		first := driverAt(t, "first", 40.01, -74.0)
		second := driverAt(t, "second", 40.02, -74.0)

		_, err := disp.Dispatch(o, []*driver.Driver{first, second})
		require.NoError(t, err)

		_, err = disp.Dispatch(o, []*driver.Driver{second})

		require.Error(t, err)
		assert.Equal(t, driver.Available, second.Status(), "failed bind must release the driver")
	})
}

// policyFunc adapts a function to the AcceptancePolicy interface.
type policyFunc func(d *driver.Driver, ord *order.Order) bool

func (f policyFunc) Decide(d *driver.Driver, ord *order.Order) bool { return f(d, ord) }
