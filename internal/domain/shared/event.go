package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events implement
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// BaseDomainEvent provides common fields for domain events
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"event_id"`
	Type      string    `json:"event_type"`
	AggType   string    `json:"aggregate_type"`
	AggID     uuid.UUID `json:"aggregate_id"`
	Timestamp time.Time `json:"occurred_at"`
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggregateType string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		AggType:   aggregateType,
		AggID:     aggregateID,
		Timestamp: time.Now(),
	}
}

// EventID returns the unique event identifier
func (e BaseDomainEvent) EventID() uuid.UUID { return e.ID }

// EventType returns the event type name
func (e BaseDomainEvent) EventType() string { return e.Type }

// AggregateType returns the type of the originating aggregate
func (e BaseDomainEvent) AggregateType() string { return e.AggType }

// AggregateID returns the ID of the originating aggregate
func (e BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }

// OccurredAt returns when the event happened
func (e BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }
