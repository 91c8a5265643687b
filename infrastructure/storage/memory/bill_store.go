// Package memory provides in-memory store implementations, primarily for
// tests and the CLI's ephemeral mode.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/sansadwatch/billflow/domain/bill"
)

// billEntry holds a deep copy of a bill for storage.
type billEntry struct {
	data []byte
}

// BillStore is an in-memory implementation of bill.Store.
type BillStore struct {
	bills map[string]*billEntry
	mu    sync.RWMutex
}

// NewBillStore creates a new in-memory bill store.
func NewBillStore() *BillStore {
	return &BillStore{
		bills: make(map[string]*billEntry),
	}
}

// Save persists a new bill.
func (s *BillStore) Save(ctx context.Context, b *bill.Bill) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if b.ID == "" {
		return bill.ErrInvalidBillID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bills[b.ID]; exists {
		return bill.ErrBillExists
	}

	data, err := json.Marshal(b)
	if err != nil {
		return err
	}

	s.bills[b.ID] = &billEntry{data: data}
	return nil
}

// Get retrieves a bill by ID.
func (s *BillStore) Get(ctx context.Context, id string) (*bill.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, bill.ErrInvalidBillID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.bills[id]
	if !ok {
		return nil, bill.ErrBillNotFound
	}

	var b bill.Bill
	if err := json.Unmarshal(entry.data, &b); err != nil {
		return nil, err
	}

	return &b, nil
}

// Update updates an existing bill.
func (s *BillStore) Update(ctx context.Context, b *bill.Bill) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if b.ID == "" {
		return bill.ErrInvalidBillID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bills[b.ID]; !exists {
		return bill.ErrBillNotFound
	}

	data, err := json.Marshal(b)
	if err != nil {
		return err
	}

	s.bills[b.ID] = &billEntry{data: data}
	return nil
}

// UpdateStatus moves a bill from prior to next atomically.
func (s *BillStore) UpdateStatus(ctx context.Context, id string, prior, next bill.Status, entry bill.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if id == "" {
		return bill.ErrInvalidBillID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bills[id]
	if !ok {
		return bill.ErrBillNotFound
	}

	var b bill.Bill
	if err := json.Unmarshal(stored.data, &b); err != nil {
		return err
	}

	if b.Status != prior {
		return bill.ErrStatusConflict
	}

	b.Status = next
	b.History = append(b.History, entry)
	b.UpdatedAt = entry.OccurredAt

	data, err := json.Marshal(&b)
	if err != nil {
		return err
	}

	s.bills[id] = &billEntry{data: data}
	return nil
}

// Delete removes a bill by ID.
func (s *BillStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if id == "" {
		return bill.ErrInvalidBillID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bills[id]; !exists {
		return bill.ErrBillNotFound
	}

	delete(s.bills, id)
	return nil
}

// List returns bills matching the filter.
func (s *BillStore) List(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*bill.Bill

	for _, entry := range s.bills {
		var b bill.Bill
		if err := json.Unmarshal(entry.data, &b); err != nil {
			continue
		}

		if !s.matchesFilter(&b, filter) {
			continue
		}

		result = append(result, &b)
	}

	s.sortBills(result, filter.OrderBy, filter.Descending)

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*bill.Bill{}, nil
		}
		result = result[filter.Offset:]
	}

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Count returns the number of bills matching the filter.
func (s *BillStore) Count(ctx context.Context, filter bill.ListFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64

	for _, entry := range s.bills {
		var b bill.Bill
		if err := json.Unmarshal(entry.data, &b); err != nil {
			continue
		}

		if s.matchesFilter(&b, filter) {
			count++
		}
	}

	return count, nil
}

// Summary returns aggregate dashboard statistics.
func (s *BillStore) Summary(ctx context.Context) (bill.Summary, error) {
	if err := ctx.Err(); err != nil {
		return bill.Summary{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := bill.Summary{
		ByHouse:    make(map[bill.House]int64),
		ByCategory: make(map[bill.Category]int64),
	}
	byStatus := make(map[bill.Status]int64)

	for _, entry := range s.bills {
		var b bill.Bill
		if err := json.Unmarshal(entry.data, &b); err != nil {
			continue
		}

		summary.Total++
		summary.ByHouse[b.OriginHouse]++
		summary.ByCategory[b.Category]++
		byStatus[b.Status]++

		switch b.Status {
		case bill.StatusGazettePublished:
			summary.GazettePublished++
		case bill.StatusSpeakerCert, bill.StatusPresidentialRev:
			summary.AwaitingAuthentication++
		case bill.StatusCommitteeReview, bill.StatusClauseVoting:
			summary.InCommittee++
		}
	}

	for status, count := range byStatus {
		summary.ByStatus = append(summary.ByStatus, bill.StatusCount{Status: status, Count: count})
	}
	sort.Slice(summary.ByStatus, func(i, j int) bool {
		if summary.ByStatus[i].Count != summary.ByStatus[j].Count {
			return summary.ByStatus[i].Count > summary.ByStatus[j].Count
		}
		return summary.ByStatus[i].Status < summary.ByStatus[j].Status
	})

	return summary, nil
}

// matchesFilter checks if a bill matches the filter criteria.
func (s *BillStore) matchesFilter(b *bill.Bill, filter bill.ListFilter) bool {
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if b.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(filter.Categories) > 0 {
		found := false
		for _, category := range filter.Categories {
			if b.Category == category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if filter.House != "" && b.OriginHouse != filter.House {
		return false
	}

	if !filter.FromTime.IsZero() && b.CreatedAt.Before(filter.FromTime) {
		return false
	}

	if !filter.ToTime.IsZero() && b.CreatedAt.After(filter.ToTime) {
		return false
	}

	if filter.TitlePattern != "" && !strings.Contains(b.Title, filter.TitlePattern) {
		return false
	}

	return true
}

// sortBills sorts bills by the specified field.
func (s *BillStore) sortBills(bills []*bill.Bill, orderBy bill.OrderBy, descending bool) {
	sort.Slice(bills, func(i, j int) bool {
		var less bool

		switch orderBy {
		case bill.OrderByCreatedAt:
			less = bills[i].CreatedAt.Before(bills[j].CreatedAt)
		case bill.OrderByUpdatedAt:
			less = bills[i].UpdatedAt.Before(bills[j].UpdatedAt)
		case bill.OrderByID:
			less = bills[i].ID < bills[j].ID
		case bill.OrderByStatus:
			less = string(bills[i].Status) < string(bills[j].Status)
		default:
			less = bills[i].CreatedAt.Before(bills[j].CreatedAt)
		}

		if descending {
			return !less
		}
		return less
	})
}

// Clear removes all bills from the store.
func (s *BillStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills = make(map[string]*billEntry)
}

// Len returns the number of stored bills.
func (s *BillStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bills)
}

// Ensure BillStore implements bill.Store and bill.SummaryProvider
var (
	_ bill.Store           = (*BillStore)(nil)
	_ bill.SummaryProvider = (*BillStore)(nil)
)
