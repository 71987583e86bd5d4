package shared

import "context"

// EventPublisher publishes domain events to interested subscribers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler handles one or more domain event types
type EventHandler interface {
	// EventTypes returns the event type names this handler subscribes to
	EventTypes() []string
	// Handle processes a single event. Errors are logged by the bus, not retried.
	Handle(ctx context.Context, event DomainEvent) error
}

// EventBus wires publishers and handlers together
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler)
}

// NoOpEventPublisher discards all events. Useful in tests and tools.
type NoOpEventPublisher struct{}

// Publish implements EventPublisher
func (NoOpEventPublisher) Publish(ctx context.Context, events ...DomainEvent) error {
	return nil
}
