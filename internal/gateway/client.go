package gateway

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ideahub-backend/internal/domain"
	"ideahub-backend/pkg/logger"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size; clients send nothing but control frames
	maxMessageSize = 512

	// Outbound channel depth per connection
	sendBufferSize = 16
)

// Client is one live authenticated session. It belongs to exactly one user
// for its entire lifetime. A dropped connection is fully discarded; the
// client re-authenticates a fresh one and receives only events published
// after registration.
type Client struct {
	ID            uuid.UUID
	UserID        string
	EstablishedAt time.Time

	hub  *Hub
	conn *websocket.Conn
	send chan domain.NotificationEvent
	done chan struct{}
	log  *logger.Logger
}

// NewClient creates a session for an already-authenticated user
func NewClient(hub *Hub, conn *websocket.Conn, userID string, log *logger.Logger) *Client {
	return &Client{
		ID:            uuid.New(),
		UserID:        userID,
		EstablishedAt: time.Now().UTC(),
		hub:           hub,
		conn:          conn,
		send:          make(chan domain.NotificationEvent, sendBufferSize),
		done:          make(chan struct{}),
		log:           log,
	}
}

// wireEvent is the frame emitted to the client
type wireEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WritePump consumes the outbound channel and writes frames to the socket.
// One goroutine per connection; this is the only writer on the socket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			frame := wireEvent{Type: event.Type, Payload: event.Payload}
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}

		case <-c.done:
			// Deregistered; tell the peer we are done
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump drains inbound frames until the transport closes, then removes
// the connection from the registry. Inbound data frames are discarded; the
// reminder channel is server-to-client only.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Deregister(c.ID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Debug("Connection closed unexpectedly")
			}
			return
		}
	}
}
