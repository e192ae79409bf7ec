package websocket

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeTimeout    = 10 * time.Second
	readIdleTimeout = 60 * time.Second
	// heartbeatEvery must stay below readIdleTimeout
	heartbeatEvery = readIdleTimeout * 9 / 10

	maxInboundBytes = 4096
	sendBuffer      = 64
)

// Actions a browser may send on the socket
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

// Event types sent in reply to client actions
const (
	EventSubscriptionUpdated = "subscription.updated"
	EventClientError         = "error"
)

// ErrSendBufferFull is returned when a client is not draining its queue
var ErrSendBufferFull = errors.New("client send buffer full")

// ClientMessage is a control message read from the socket.
//
//	{"action":"subscribe","profileIds":["<uuid>", ...]}
//	{"action":"unsubscribe"}
//
// Subscribing narrows profile events to the listed profiles; unsubscribing
// restores the full feed.
type ClientMessage struct {
	Action     string   `json:"action"`
	ProfileIDs []string `json:"profileIds,omitempty"`
}

// SubscriptionState is the payload of a subscription.updated event.
// An empty list means the connection receives every profile event.
type SubscriptionState struct {
	ProfileIDs []string `json:"profileIds"`
}

// Client is one realtime connection of an authenticated user
type Client struct {
	id     string
	userID uuid.UUID
	conn   *websocket.Conn
	hub    *Hub
	out    chan []byte
	log    zerolog.Logger

	mu       sync.RWMutex
	done     bool
	watching map[uuid.UUID]struct{}
	once     sync.Once
}

// NewClient wraps an upgraded connection for userID
func NewClient(conn *websocket.Conn, userID uuid.UUID, hub *Hub) *Client {
	id := uuid.NewString()
	return &Client{
		id:     id,
		userID: userID,
		conn:   conn,
		hub:    hub,
		out:    make(chan []byte, sendBuffer),
		log: log.With().
			Str("client_id", id).
			Str("user_id", userID.String()).
			Logger(),
	}
}

// ID returns the connection ID
func (c *Client) ID() string {
	return c.id
}

// UserID returns the ID of the user owning the connection
func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// Send queues an encoded event without blocking
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.done {
		return ErrClientClosed
	}

	select {
	case c.out <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Accepts reports whether event passes the connection's subscription.
// Events without a subject always pass.
func (c *Client) Accepts(event Event) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.watching == nil || event.Subject == "" {
		return true
	}
	id, err := uuid.Parse(event.Subject)
	if err != nil {
		return false
	}
	_, ok := c.watching[id]
	return ok
}

// Watching returns the subscribed profile IDs in sorted order
func (c *Client) Watching() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.watching))
	for id := range c.watching {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)
	return ids
}

// Close stops the writer and closes the connection. It is idempotent.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		c.done = true
		close(c.out)
		c.mu.Unlock()

		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// ReadPump reads control messages until the peer goes away, then
// unregisters the client. Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxInboundBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(readIdleTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readIdleTimeout))
	})

	for {
		kind, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("WebSocket closed unexpectedly")
			}
			return
		}
		if kind == websocket.TextMessage {
			c.handleMessage(raw)
		}
	}
}

// WritePump drains the send queue and keeps the connection alive with
// pings. Run it in its own goroutine.
func (c *Client) WritePump() {
	heartbeat := time.NewTicker(heartbeatEvery)
	defer func() {
		heartbeat.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.out:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, data); err != nil {
				c.log.Warn().Err(err).Msg("WebSocket write failed")
				return
			}
		case <-heartbeat.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(kind int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(kind, data)
}

// handleMessage applies one control message and replies with the resulting
// subscription or an error event
func (c *Client) handleMessage(raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.replyError("message must be a JSON object")
		return
	}

	switch msg.Action {
	case ActionSubscribe:
		if len(msg.ProfileIDs) == 0 {
			c.replyError("profileIds is required")
			return
		}
		ids := make(map[uuid.UUID]struct{}, len(msg.ProfileIDs))
		for _, raw := range msg.ProfileIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.replyError("invalid profile id: " + raw)
				return
			}
			ids[id] = struct{}{}
		}
		c.setWatching(ids)
	case ActionUnsubscribe:
		c.setWatching(nil)
	default:
		c.replyError("unknown action: " + msg.Action)
		return
	}

	c.reply(Event{
		Type:      EventSubscriptionUpdated,
		Payload:   SubscriptionState{ProfileIDs: c.Watching()},
		Timestamp: time.Now().UTC(),
	})
}

func (c *Client) setWatching(ids map[uuid.UUID]struct{}) {
	c.mu.Lock()
	c.watching = ids
	c.mu.Unlock()

	c.log.Debug().Int("profiles", len(ids)).Msg("WebSocket subscription changed")
}

func (c *Client) replyError(message string) {
	c.reply(Event{
		Type:      EventClientError,
		Payload:   map[string]string{"message": message},
		Timestamp: time.Now().UTC(),
	})
}

func (c *Client) reply(event Event) {
	data, err := event.ToJSON()
	if err != nil {
		c.log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to serialize reply")
		return
	}
	if err := c.Send(data); err != nil {
		c.log.Debug().Err(err).Str("event_type", event.Type).Msg("Dropped reply")
	}
}
