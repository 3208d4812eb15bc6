// Package gateway tracks live authenticated real-time sessions and fans
// reminder events out to them.
package gateway

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"ideahub-backend/internal/domain"
	"ideahub-backend/internal/metrics"
	"ideahub-backend/pkg/logger"
)

// publishTimeout bounds how long Publish waits on one connection's outbound
// channel before dropping the event for that connection
const publishTimeout = 500 * time.Millisecond

// Hub is the connection registry. It is mutated only by register/deregister
// and read, never mutated, by Publish.
type Hub struct {
	mu sync.RWMutex

	// Live connections per user; a user may hold many concurrent sessions
	byUser map[string]map[*Client]struct{}
	byID   map[uuid.UUID]*Client

	collector *metrics.Collector
	logger    *logger.Logger
}

// NewHub creates a new connection registry
func NewHub(collector *metrics.Collector, logger *logger.Logger) *Hub {
	return &Hub{
		byUser:    make(map[string]map[*Client]struct{}),
		byID:      make(map[uuid.UUID]*Client),
		collector: collector,
		logger:    logger,
	}
}

// Register admits an authenticated connection into the registry
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.byUser[c.UserID]; !ok {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
	h.byID[c.ID] = c

	h.collector.ConnectionOpened()
	h.logger.WithFields(map[string]interface{}{
		"connection_id": c.ID.String(),
		"user_id":       c.UserID,
	}).Info("Connection registered")
}

// Deregister removes a connection. Safe to call more than once; transport
// close can race an explicit client disconnect.
func (h *Hub) Deregister(connectionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.byID[connectionID]
	if !ok {
		return
	}
	delete(h.byID, connectionID)

	if conns, ok := h.byUser[c.UserID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
	// The send channel is never closed; the done signal stops the write
	// pump and unblocks any in-flight Publish.
	close(c.done)

	h.collector.ConnectionClosed()
	h.logger.WithFields(map[string]interface{}{
		"connection_id": c.ID.String(),
		"user_id":       c.UserID,
	}).Info("Connection deregistered")
}

// Publish hands the event to every live connection of the target user.
// Delivery is best-effort and at-most-once per connection; a slow connection
// loses the event without affecting the others. Returns the number of
// connections the event was handed to. Events for users with zero live
// connections are discarded.
func (h *Hub) Publish(event domain.NotificationEvent) int {
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.byUser[event.TargetUserID]))
	for c := range h.byUser[event.TargetUserID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range conns {
		timer := time.NewTimer(publishTimeout)
		select {
		case c.send <- event:
			delivered++
			h.collector.RecordNotificationDelivered()
		case <-timer.C:
			h.collector.RecordNotificationDropped()
			h.logger.WithField("connection_id", c.ID.String()).Warn("Dropped event on slow connection")
		case <-c.done:
			// Connection closed between the snapshot and the send
		}
		timer.Stop()
	}
	return delivered
}

// ConnectionCount returns the number of live connections for a user
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// Close deregisters every connection, used during graceful shutdown
func (h *Hub) Close() {
	h.mu.Lock()
	ids := make([]uuid.UUID, 0, len(h.byID))
	for id := range h.byID {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		h.Deregister(id)
	}
}
