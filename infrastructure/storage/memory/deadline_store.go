package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sansadwatch/billflow/domain/deadline"
)

// DeadlineStore is an in-memory implementation of deadline.Store.
type DeadlineStore struct {
	records map[string]*deadline.Record
	mu      sync.RWMutex
}

// NewDeadlineStore creates a new in-memory deadline store.
func NewDeadlineStore() *DeadlineStore {
	return &DeadlineStore{
		records: make(map[string]*deadline.Record),
	}
}

// Save persists a new deadline record.
func (s *DeadlineStore) Save(ctx context.Context, rec *deadline.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if rec.ID == "" {
		return deadline.ErrInvalidDeadlineID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return deadline.ErrDeadlineExists
	}

	clone := *rec
	s.records[rec.ID] = &clone
	return nil
}

// Get retrieves a deadline record by ID.
func (s *DeadlineStore) Get(ctx context.Context, id string) (*deadline.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, deadline.ErrInvalidDeadlineID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, deadline.ErrDeadlineNotFound
	}

	clone := *rec
	return &clone, nil
}

// ListByBill returns all deadline records for a bill, oldest first.
func (s *DeadlineStore) ListByBill(ctx context.Context, billID string) ([]*deadline.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*deadline.Record
	for _, rec := range s.records {
		if rec.BillID != billID {
			continue
		}
		clone := *rec
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// ListPending returns incomplete records expiring before the horizon,
// soonest first.
func (s *DeadlineStore) ListPending(ctx context.Context, horizon time.Time) ([]*deadline.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*deadline.Record
	for _, rec := range s.records {
		if rec.Completed {
			continue
		}
		if rec.Instance.ExpiresAt.After(horizon) {
			continue
		}
		clone := *rec
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Instance.ExpiresAt.Before(result[j].Instance.ExpiresAt)
	})

	return result, nil
}

// Complete marks a deadline record as completed.
func (s *DeadlineStore) Complete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if id == "" {
		return deadline.ErrInvalidDeadlineID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return deadline.ErrDeadlineNotFound
	}

	rec.Completed = true
	return nil
}

// DeleteByBill removes all deadline records for a bill.
func (s *DeadlineStore) DeleteByBill(ctx context.Context, billID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rec := range s.records {
		if rec.BillID == billID {
			delete(s.records, id)
		}
	}
	return nil
}

// Clear removes all records from the store.
func (s *DeadlineStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*deadline.Record)
}

// Len returns the number of stored records.
func (s *DeadlineStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Ensure DeadlineStore implements deadline.Store
var _ deadline.Store = (*DeadlineStore)(nil)
