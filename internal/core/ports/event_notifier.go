package ports

// Event kinds published by command handlers.
const (
	// EventOrderStateChanged is published on every order lifecycle transition.
	EventOrderStateChanged = "order.state_changed"
	// EventDriverAssigned is published when a driver accepts an assignment.
	EventDriverAssigned = "driver.assigned"
	// EventDriverReleased is published when a driver is released back to the pool.
	EventDriverReleased = "driver.released"
)

// Event is a lightweight notification about a domain state change.
// Payload carries kind-specific details as plain strings.
type Event struct {
	// Kind identifies the event type (one of the Event* constants).
	Kind string
	// EntityID is the string form of the affected aggregate's ID.
	EntityID string
	// Payload carries additional kind-specific fields.
	Payload map[string]string
}

// EventNotifier publishes domain events to interested listeners.
//
// Notify is fire-and-forget: implementations must never block the caller
// and must swallow delivery failures. A slow or absent listener cannot
// stall a command handler.
type EventNotifier interface {
	Notify(event Event)
}
