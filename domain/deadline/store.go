package deadline

import (
	"context"
	"time"
)

// Record is a persisted deadline instance bound to a bill. Completion and
// supersession are tracked here by the record service, not by the
// computation functions.
type Record struct {
	ID        string    `json:"id"`
	BillID    string    `json:"bill_id"`
	Instance  Instance  `json:"instance"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the interface for deadline persistence.
// Implementations may be in-memory, SQLite, PostgreSQL, or any other backend.
type Store interface {
	// Save persists a new deadline record.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a deadline record by ID.
	Get(ctx context.Context, id string) (*Record, error)

	// ListByBill returns all deadline records for a bill, oldest first.
	ListByBill(ctx context.Context, billID string) ([]*Record, error)

	// ListPending returns incomplete records expiring before the horizon,
	// soonest first.
	ListPending(ctx context.Context, horizon time.Time) ([]*Record, error)

	// Complete marks a deadline record as completed.
	Complete(ctx context.Context, id string) error

	// DeleteByBill removes all deadline records for a bill. Used when a
	// bill leaves the status that created them.
	DeleteByBill(ctx context.Context, billID string) error
}
