package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for bill lifecycle logging.

// BillID adds a bill ID field.
func BillID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("bill_id", id)
	}
}

// Status adds a status field.
func Status(s bill.Status) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("status", string(s))
	}
}

// FromStatus adds a from_status field for transitions.
func FromStatus(s bill.Status) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_status", string(s))
	}
}

// ToStatus adds a to_status field for transitions.
func ToStatus(s bill.Status) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("to_status", string(s))
	}
}

// Actor adds the acting role.
func Actor(r bill.Role) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("role", string(r))
	}
}

// Category adds the bill category.
func Category(c bill.Category) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("category", string(c))
	}
}

// DeadlineKind adds a deadline kind field.
func DeadlineKind(k deadline.Kind) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("deadline_kind", string(k))
	}
}

// ExpiresAt adds a deadline expiry field.
func ExpiresAt(t time.Time) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("expires_at", t.Format(time.RFC3339))
	}
}

// Err adds an error field.
func Err(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Err(err)
	}
}

// Int adds an arbitrary integer field.
func Int(key string, v int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, v)
	}
}
