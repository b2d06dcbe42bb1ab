// Package notifier provides the outbound event notification adapter.
// Events are logged and fanned out to in-process subscribers over buffered
// channels. Delivery is best effort: a subscriber that stops draining its
// channel loses events rather than blocking the command handlers that
// publish them.
package notifier

import (
	"log/slog"
	"sync"

	"dispatch/internal/core/ports"
)

// ChannelNotifier implements ports.EventNotifier using buffered channels.
// Every published event is also written to the structured log, which keeps
// an audit trail even when no subscriber is attached.
type ChannelNotifier struct {
	logger *slog.Logger
	buffer int

	mu          sync.RWMutex
	subscribers []chan ports.Event
	closed      bool
}

// NewChannelNotifier creates a notifier whose subscriber channels hold up to
// buffer events each. A non-positive buffer falls back to 16.
func NewChannelNotifier(logger *slog.Logger, buffer int) *ChannelNotifier {
	if buffer <= 0 {
		buffer = 16
	}

	return &ChannelNotifier{
		logger: logger.With("component", "event_notifier"),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber and returns its event channel.
// The channel is closed when the notifier shuts down. Subscribing after
// Close returns an already closed channel.
func (n *ChannelNotifier) Subscribe() <-chan ports.Event {
	ch := make(chan ports.Event, n.buffer)

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		close(ch)
		return ch
	}

	n.subscribers = append(n.subscribers, ch)
	return ch
}

// Notify publishes an event to the log and all subscribers.
// Never blocks: when a subscriber's buffer is full the event is dropped for
// that subscriber and a warning is logged.
func (n *ChannelNotifier) Notify(event ports.Event) {
	n.logger.Info("event published",
		"kind", event.Kind,
		"entity_id", event.EntityID,
		"payload", event.Payload,
	)

	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return
	}

	for _, ch := range n.subscribers {
		select {
		case ch <- event:
		default:
			n.logger.Warn("subscriber buffer full, event dropped",
				"kind", event.Kind,
				"entity_id", event.EntityID,
			)
		}
	}
}

// Close shuts the notifier down and closes all subscriber channels.
// Notify calls after Close only log; they deliver to nobody.
func (n *ChannelNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}

	n.closed = true
	for _, ch := range n.subscribers {
		close(ch)
	}
	n.subscribers = nil
}
