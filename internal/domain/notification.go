package domain

import (
	"encoding/json"
	"time"
)

// EventTypeReminder is the only event type emitted over the real-time channel
const EventTypeReminder = "reminder"

// NotificationEvent is a reminder addressed to one user. Delivery is
// best-effort to the user's live connections at emission time; there is no
// durable inbox and no replay for users with zero connections.
type NotificationEvent struct {
	TargetUserID string          `json:"-"`
	Type         string          `json:"type"`
	Payload      json.RawMessage `json:"payload"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewReminder constructs a reminder event for the given user
func NewReminder(userID string, payload json.RawMessage) NotificationEvent {
	return NotificationEvent{
		TargetUserID: userID,
		Type:         EventTypeReminder,
		Payload:      payload,
		CreatedAt:    time.Now().UTC(),
	}
}
