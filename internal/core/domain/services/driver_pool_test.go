package services_test

import (
	"sync"
	"testing"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverPool(t *testing.T) {
	t.Run("registers and returns the same instance", func(t *testing.T) {
		pool := services.NewDriverPool()
		d := driverAt(t, "alice", 40.0, -74.0)

		require.NoError(t, pool.Register(d))

		got, err := pool.Get(d.ID())
		require.NoError(t, err)
		assert.Same(t, d, got)
	})

	t.Run("get unknown driver fails with not found", func(t *testing.T) {
		pool := services.NewDriverPool()

		_, err := pool.Get(kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("register replaces an existing instance", func(t *testing.T) {
		pool := services.NewDriverPool()
		d := driverAt(t, "alice", 40.0, -74.0)
		require.NoError(t, pool.Register(d))

		restored, err := driver.RestoreDriver(d.ID(), "alice", "+15550000", "bike", nil, driver.Offline)
		require.NoError(t, err)
		require.NoError(t, pool.Register(restored))

		got, err := pool.Get(d.ID())
		require.NoError(t, err)
		assert.Same(t, restored, got)
	})

	t.Run("rejects an unconstructed driver", func(t *testing.T) {
		pool := services.NewDriverPool()

		err := pool.Register(&driver.Driver{})

		require.Error(t, err)
	})

	t.Run("remove drops the driver", func(t *testing.T) {
		pool := services.NewDriverPool()
		d := driverAt(t, "alice", 40.0, -74.0)
		require.NoError(t, pool.Register(d))

		pool.Remove(d.ID())

		_, err := pool.Get(d.ID())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("list dispatchable filters busy, offline and unlocated drivers", func(t *testing.T) {
		pool := services.NewDriverPool()

		ready := driverAt(t, "ready", 40.0, -74.0)
		busy := driverAt(t, "busy", 40.0, -74.0)
		require.True(t, busy.Reserve())
		offline := driverAt(t, "offline", 40.0, -74.0)
		require.NoError(t, offline.GoOffline())
		unlocated, err := driver.NewDriver(kernel.NewUUID(), "ghost", "+15550000", "bike")
		require.NoError(t, err)

		for _, d := range []*driver.Driver{ready, busy, offline, unlocated} {
			require.NoError(t, pool.Register(d))
		}

		dispatchable := pool.ListDispatchable()

		require.Len(t, dispatchable, 1)
		assert.Same(t, ready, dispatchable[0])
		assert.Len(t, pool.All(), 4)
	})

	t.Run("list dispatchable is sorted by driver id", func(t *testing.T) {
		pool := services.NewDriverPool()
		for i := 0; i < 8; i++ {
			require.NoError(t, pool.Register(driverAt(t, "worker", 40.0, -74.0)))
		}

		first := pool.ListDispatchable()
		require.Len(t, first, 8)
		for i := 1; i < len(first); i++ {
			assert.Less(t, first[i-1].ID().String(), first[i].ID().String())
		}

		second := pool.ListDispatchable()
		require.Len(t, second, 8)
		for i := range first {
			assert.Same(t, first[i], second[i])
		}
	})

	t.Run("concurrent registrations are safe", func(t *testing.T) {
		pool := services.NewDriverPool()

		drivers := make([]*driver.Driver, 16)
		for i := range drivers {
			drivers[i] = driverAt(t, "worker", 40.0, -74.0)
		}

		var wg sync.WaitGroup
		for _, d := range drivers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, pool.Register(d))
			}()
		}
		wg.Wait()

		assert.Len(t, pool.All(), 16)
	})
}
