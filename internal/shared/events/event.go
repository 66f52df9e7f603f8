package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the interface that all domain events must implement.
type Event interface {
	// EventID returns the unique identifier for this event instance.
	EventID() uuid.UUID

	// EventType returns the type name of the event (e.g., "ReportGenerated").
	EventType() string

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// SubjectKey returns the key of the subject that produced this event
	// (the artifact cache key for report events).
	SubjectKey() string
}

// BaseEvent provides a base implementation of the Event interface.
// Embed this struct in your domain events to inherit common fields.
type BaseEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Subject   string    `json:"subject"`
}

// EventID returns the unique identifier for this event instance.
func (e BaseEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type name of the event.
func (e BaseEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// SubjectKey returns the key of the subject that produced this event.
func (e BaseEvent) SubjectKey() string {
	return e.Subject
}

// NewBaseEvent creates a new BaseEvent with the given parameters.
func NewBaseEvent(eventType, subject string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		Subject:   subject,
	}
}
