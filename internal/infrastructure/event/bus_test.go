package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storeops/backoffice/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler blew up")
	}
	h.received = append(h.received, event)
	return h.err
}

func newTestEvent(eventType string) shared.DomainEvent {
	base := shared.NewBaseDomainEvent(eventType, "test", uuid.New())
	return &base
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches to subscribed handlers only", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		orders := &recordingHandler{types: []string{"order.created"}}
		payments := &recordingHandler{types: []string{"payment.completed"}}
		bus.Subscribe(orders)
		bus.Subscribe(payments)

		require.NoError(t, bus.Publish(ctx, newTestEvent("order.created")))

		assert.Len(t, orders.received, 1)
		assert.Empty(t, payments.received)
	})

	t.Run("handler subscribed to multiple types sees each", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{"a", "b"}}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("a"), newTestEvent("b"), newTestEvent("c")))
		assert.Len(t, h.received, 2)
	})

	t.Run("handler errors do not reach the publisher", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(&recordingHandler{types: []string{"a"}, err: errors.New("boom")})

		assert.NoError(t, bus.Publish(ctx, newTestEvent("a")))
	})

	t.Run("handler panics do not reach the publisher", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(&recordingHandler{types: []string{"a"}, panics: true})
		survivor := &recordingHandler{types: []string{"a"}}
		bus.Subscribe(survivor)

		assert.NoError(t, bus.Publish(ctx, newTestEvent("a")))
		assert.Len(t, survivor.received, 1)
	})

	t.Run("events without subscribers are dropped silently", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		assert.NoError(t, bus.Publish(ctx, newTestEvent("nobody.cares")))
	})
}
