package services

import (
	"sort"
	"sync"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// DriverPool is the live registry of driver aggregates.
//
// Dispatch races over in-memory driver state (the Available to Busy
// reservation), so every part of the system must act on the same Driver
// instance. The pool holds that instance per driver ID; repositories persist
// snapshots of it, but reservation correctness comes from here.
//
// The pool's own lock only guards the map. Each driver carries its own
// mutex, so operations on two different drivers never contend.
type DriverPool struct {
	mu      sync.RWMutex
	drivers map[string]*driver.Driver
}

// NewDriverPool creates an empty DriverPool.
func NewDriverPool() *DriverPool {
	return &DriverPool{
		drivers: make(map[string]*driver.Driver),
	}
}

// Register adds a driver to the pool. Registering an already known driver ID
// replaces the stored instance, which is how restored aggregates re-enter
// the pool on startup.
func (p *DriverPool) Register(d *driver.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.drivers[d.ID().String()] = d
	return nil
}

// Get returns the live driver instance for the given ID.
func (p *DriverPool) Get(id kernel.UUID) (*driver.Driver, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	d, ok := p.drivers[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("driver", id)
	}
	return d, nil
}

// Remove drops a driver from the pool. Removing an unknown ID is a no-op.
func (p *DriverPool) Remove(id kernel.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.drivers, id.String())
}

// All returns every registered driver in unspecified order.
func (p *DriverPool) All() []*driver.Driver {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*driver.Driver, 0, len(p.drivers))
	for _, d := range p.drivers {
		out = append(out, d)
	}
	return out
}

// ListDispatchable returns the drivers that can be offered an assignment
// right now: Available with a known location, sorted by driver ID so the
// candidate order is the same on every run and distance ties resolve
// identically. The snapshot may go stale immediately; the dispatch loop
// tolerates that.
func (p *DriverPool) ListDispatchable() []*driver.Driver {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*driver.Driver, 0, len(p.drivers))
	for _, d := range p.drivers {
		if d.IsDispatchable() {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID().String() < out[j].ID().String()
	})
	return out
}
