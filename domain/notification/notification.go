// Package notification provides domain models for dispatching side-effect
// intents. The lifecycle engine only names the intents a transition
// implies; this package carries them to the dispatcher that performs
// notifications and record creation.
package notification

import (
	"encoding/json"
	"time"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
	"github.com/sansadwatch/billflow/domain/lifecycle"
)

// EventType represents the type of dispatch event.
type EventType string

// Event types.
const (
	EventTransitionApplied EventType = "bill.transition_applied"
	EventSideEffectIntent  EventType = "bill.side_effect"
	EventDeadlineCreated   EventType = "bill.deadline_created"
	EventDeadlineExpired   EventType = "bill.deadline_expired"
)

// Event represents a dispatch event to be sent to webhooks.
type Event struct {
	// ID is a unique identifier for this event.
	ID string `json:"id"`
	// Type is the event type.
	Type EventType `json:"type"`
	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`
	// BillID is the associated bill ID.
	BillID string `json:"bill_id"`
	// Payload contains the event-specific data.
	Payload json.RawMessage `json:"payload"`
}

// TransitionAppliedPayload contains data for bill.transition_applied events.
type TransitionAppliedPayload struct {
	FromStatus bill.Status `json:"from_status"`
	ToStatus   bill.Status `json:"to_status"`
	Actor      bill.Role   `json:"actor"`
	Label      string      `json:"label"`
	Reason     string      `json:"reason,omitempty"`
}

// SideEffectPayload contains data for bill.side_effect events. One event
// is emitted per intent attached to the applied transition.
type SideEffectPayload struct {
	Intent     lifecycle.SideEffect `json:"intent"`
	FromStatus bill.Status          `json:"from_status"`
	ToStatus   bill.Status          `json:"to_status"`
}

// DeadlineCreatedPayload contains data for bill.deadline_created events.
type DeadlineCreatedPayload struct {
	Kind      deadline.Kind `json:"kind"`
	StartsAt  time.Time     `json:"starts_at"`
	ExpiresAt time.Time     `json:"expires_at"`
	Days      int           `json:"duration_days"`
}

// DeadlineExpiredPayload contains data for bill.deadline_expired events.
type DeadlineExpiredPayload struct {
	Kind       deadline.Kind `json:"kind"`
	ExpiresAt  time.Time     `json:"expires_at"`
	AutoAction bill.Status   `json:"auto_action,omitempty"`
}

// NewEvent creates a new dispatch event.
func NewEvent(id string, eventType EventType, billID string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        id,
		Type:      eventType,
		Timestamp: time.Now(),
		BillID:    billID,
		Payload:   payloadBytes,
	}, nil
}

// DecodePayload unmarshals the event payload into the given struct.
func (e *Event) DecodePayload(v any) error {
	if e.Payload == nil {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}
