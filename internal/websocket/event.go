package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated       EventType = "created"
	EventTypeUpdated       EventType = "updated"
	EventTypeDeleted       EventType = "deleted"
	EventTypeAvatarUpdated EventType = "avatar_updated"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeProfile EntityType = "profile"
)

// Event is the message pushed to clients.
// Format: { type, entity, subject, payload, timestamp }
type Event struct {
	Type   string     `json:"type"`
	Entity EntityType `json:"entity,omitempty"`
	// Subject is the ID of the profile the event is about, if any
	Subject   string      `json:"subject,omitempty"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// About returns a copy of the event tagged with the profile it concerns
func (e Event) About(profileID uuid.UUID) Event {
	e.Subject = profileID.String()
	return e
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ProfileCreated creates a profile.created event
func ProfileCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeProfile, payload)
}

// ProfileUpdated creates a profile.updated event
func ProfileUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeProfile, payload)
}

// ProfileDeleted creates a profile.deleted event
func ProfileDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeProfile, payload)
}

// ProfileAvatarUpdated creates a profile.avatar_updated event
func ProfileAvatarUpdated(payload interface{}) Event {
	return NewEvent(EventTypeAvatarUpdated, EntityTypeProfile, payload)
}
