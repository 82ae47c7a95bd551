// Package events provides the in-process bus that carries state changes
// from the browse session to its presenters.
package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	EntityID() string // book id, or "" for catalog-wide events
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"entity_id,omitempty"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityID() string      { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, entityID string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		ID:        entityID,
		Timestamp: time.Now(),
	}
}
