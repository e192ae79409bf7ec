package websocket

import "github.com/google/uuid"

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to every connected client
	Publish(event Event)
	// PublishToUser sends an event to the connections of a single user
	PublishToUser(userID uuid.UUID, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher
func (h *Hub) Publish(event Event) {
	h.BroadcastAll(event)
}

// PublishToUser implements EventPublisher
func (h *Hub) PublishToUser(userID uuid.UUID, event Event) {
	h.Broadcast(userID, event)
}
