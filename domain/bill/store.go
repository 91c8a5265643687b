package bill

import (
	"context"
	"time"
)

// Store defines the interface for bill persistence.
// Implementations may be in-memory, SQLite, PostgreSQL, or any other backend.
type Store interface {
	// Save persists a new bill.
	Save(ctx context.Context, b *Bill) error

	// Get retrieves a bill by ID.
	Get(ctx context.Context, id string) (*Bill, error)

	// Update updates an existing bill.
	Update(ctx context.Context, b *Bill) error

	// UpdateStatus moves a bill from prior to next atomically. It fails
	// with ErrStatusConflict when the stored status no longer equals
	// prior, so a racing transition is applied at most once.
	UpdateStatus(ctx context.Context, id string, prior, next Status, entry HistoryEntry) error

	// Delete removes a bill by ID.
	Delete(ctx context.Context, id string) error

	// List returns bills matching the filter.
	List(ctx context.Context, filter ListFilter) ([]*Bill, error)

	// Count returns the number of bills matching the filter.
	Count(ctx context.Context, filter ListFilter) (int64, error)
}

// ListFilter specifies criteria for listing bills.
type ListFilter struct {
	// Statuses filters by current status (empty means all).
	Statuses []Status

	// Categories filters by bill category (empty means all).
	Categories []Category

	// House filters by origin house (empty means all).
	House House

	// TitlePattern filters by title text (substring match).
	TitlePattern string

	// FromTime filters bills created after this time.
	FromTime time.Time

	// ToTime filters bills created before this time.
	ToTime time.Time

	// Limit is the maximum number of bills to return (0 = no limit).
	Limit int

	// Offset is the number of bills to skip for pagination.
	Offset int

	// OrderBy specifies the sort order.
	OrderBy OrderBy

	// Descending reverses the sort order.
	Descending bool
}

// OrderBy specifies how to sort bill results.
type OrderBy string

const (
	// OrderByCreatedAt sorts by creation time.
	OrderByCreatedAt OrderBy = "created_at"

	// OrderByUpdatedAt sorts by last update time.
	OrderByUpdatedAt OrderBy = "updated_at"

	// OrderByID sorts by bill ID.
	OrderByID OrderBy = "id"

	// OrderByStatus sorts by current status.
	OrderByStatus OrderBy = "status"
)

// StatusCount pairs a status with the number of bills currently in it.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

// Summary provides the aggregate dashboard statistics.
type Summary struct {
	// Total is the total number of bills.
	Total int64 `json:"total"`

	// GazettePublished is the number of bills published in the gazette.
	GazettePublished int64 `json:"gazette_published"`

	// AwaitingAuthentication counts bills in certification or assent stages.
	AwaitingAuthentication int64 `json:"awaiting_authentication"`

	// InCommittee counts bills in committee review or clause voting.
	InCommittee int64 `json:"in_committee"`

	// ByHouse counts bills per origin house.
	ByHouse map[House]int64 `json:"by_house"`

	// ByCategory counts bills per category.
	ByCategory map[Category]int64 `json:"by_category"`

	// ByStatus counts bills per status, most populous first.
	ByStatus []StatusCount `json:"by_status"`
}

// SummaryProvider is an optional interface for stores that support summaries.
type SummaryProvider interface {
	// Summary returns aggregate statistics.
	Summary(ctx context.Context) (Summary, error)
}
