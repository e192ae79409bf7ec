package websocket

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	UserID() uuid.UUID
	Send(data []byte) error
	Close() error
}

// eventFilter is implemented by clients that narrow what they receive
type eventFilter interface {
	Accepts(event Event) bool
}

// Hub tracks WebSocket connections grouped by user.
// It is safe for concurrent use.
type Hub struct {
	// users maps user ID to a map of client ID to client
	users map[uuid.UUID]map[string]ClientInterface
	mu    sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		users: make(map[uuid.UUID]map[string]ClientInterface),
	}
}

// Register adds a client to the hub under its user
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := client.UserID()
	if h.users[userID] == nil {
		h.users[userID] = make(map[string]ClientInterface)
	}
	h.users[userID][client.ID()] = client

	log.Debug().
		Str("user_id", userID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := client.UserID()
	clients, ok := h.users[userID]
	if !ok {
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		return
	}

	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.users, userID)
	}

	log.Debug().
		Str("user_id", userID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client unregistered")
}

// Broadcast sends an event to every connection of one user
func (h *Hub) Broadcast(userID uuid.UUID, event Event) {
	h.mu.RLock()
	targets := make([]ClientInterface, 0, len(h.users[userID]))
	for _, client := range h.users[userID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	h.send(targets, event)
}

// BroadcastAll sends an event to every connected client
func (h *Hub) BroadcastAll(event Event) {
	h.mu.RLock()
	targets := make([]ClientInterface, 0)
	for _, clients := range h.users {
		for _, client := range clients {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	h.send(targets, event)
}

// send delivers to each client asynchronously, outside the hub lock
func (h *Hub) send(targets []ClientInterface, event Event) {
	if len(targets) == 0 {
		return
	}

	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	delivered := 0
	for _, client := range targets {
		if f, ok := client.(eventFilter); ok && !f.Accepts(event) {
			continue
		}
		delivered++
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Str("user_id", c.UserID().String()).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Str("event_type", event.Type).
		Int("client_count", delivered).
		Msg("Broadcast event")
}

// ClientCount returns the number of connections for a user
func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// TotalClientCount returns the total number of connected clients
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.users {
		total += len(clients)
	}
	return total
}
