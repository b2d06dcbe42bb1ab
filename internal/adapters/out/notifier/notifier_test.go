package notifier_test

import (
	"io"
	"log/slog"
	"testing"

	"dispatch/internal/adapters/out/notifier"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(buffer int) *notifier.ChannelNotifier {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return notifier.NewChannelNotifier(logger, buffer)
}

func TestChannelNotifier_Notify(t *testing.T) {
	t.Run("should deliver events to subscriber in order", func(t *testing.T) {
		n := newTestNotifier(4)
		defer n.Close()

		ch := n.Subscribe()

		first := ports.Event{Kind: ports.EventOrderStateChanged, EntityID: "order-1"}
		second := ports.Event{Kind: ports.EventDriverAssigned, EntityID: "driver-1"}
		n.Notify(first)
		n.Notify(second)

		assert.Equal(t, first, <-ch)
		assert.Equal(t, second, <-ch)
	})

	t.Run("should deliver to every subscriber", func(t *testing.T) {
		n := newTestNotifier(4)
		defer n.Close()

		first := n.Subscribe()
		second := n.Subscribe()

		event := ports.Event{Kind: ports.EventDriverReleased, EntityID: "driver-2"}
		n.Notify(event)

		assert.Equal(t, event, <-first)
		assert.Equal(t, event, <-second)
	})

	t.Run("should drop events instead of blocking when buffer is full", func(t *testing.T) {
		n := newTestNotifier(1)
		defer n.Close()

		ch := n.Subscribe()

		kept := ports.Event{Kind: ports.EventOrderStateChanged, EntityID: "order-1"}
		dropped := ports.Event{Kind: ports.EventOrderStateChanged, EntityID: "order-2"}
		n.Notify(kept)
		n.Notify(dropped)

		assert.Equal(t, kept, <-ch)
		select {
		case unexpected := <-ch:
			t.Fatalf("expected no further events, got %v", unexpected)
		default:
		}
	})

	t.Run("should not deliver without subscribers", func(t *testing.T) {
		n := newTestNotifier(4)
		defer n.Close()

		n.Notify(ports.Event{Kind: ports.EventOrderStateChanged, EntityID: "order-1"})
	})
}

func TestChannelNotifier_Close(t *testing.T) {
	t.Run("should close subscriber channels", func(t *testing.T) {
		n := newTestNotifier(4)
		ch := n.Subscribe()

		n.Close()

		_, open := <-ch
		assert.False(t, open)
	})

	t.Run("should ignore notify after close", func(t *testing.T) {
		n := newTestNotifier(4)
		n.Subscribe()
		n.Close()

		n.Notify(ports.Event{Kind: ports.EventDriverAssigned, EntityID: "driver-1"})
	})

	t.Run("should return closed channel when subscribing after close", func(t *testing.T) {
		n := newTestNotifier(4)
		n.Close()

		ch := n.Subscribe()
		require.NotNil(t, ch)

		_, open := <-ch
		assert.False(t, open)
	})

	t.Run("should tolerate double close", func(t *testing.T) {
		n := newTestNotifier(4)
		n.Close()
		n.Close()
	})
}
