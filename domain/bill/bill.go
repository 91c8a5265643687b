package bill

import (
	"time"

	"github.com/google/uuid"
)

// Bill is a piece of draft legislation tracked through the procedural
// stages. The engine itself never stores bills; this entity is what the
// record service persists and passes in.
type Bill struct {
	ID          string    `json:"id"`
	Number      string    `json:"bill_number,omitempty"`
	Title       string    `json:"title"`
	TitleNe     string    `json:"title_ne,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Category    Category  `json:"category"`
	Status      Status    `json:"status"`
	OriginHouse House     `json:"origin_house"`
	FastTrack   bool      `json:"fast_track"`
	Urgent      bool      `json:"urgent"`

	// ReturnCount records how many times the President has returned the
	// bill. A bill may be returned at most once.
	ReturnCount int `json:"return_count"`

	// History holds the applied transitions, oldest first.
	History []HistoryEntry `json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryEntry records one applied status transition.
type HistoryEntry struct {
	ID          string    `json:"id"`
	FromStatus  Status    `json:"from_status"`
	ToStatus    Status    `json:"to_status"`
	TriggeredBy Role      `json:"triggered_by"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// New creates a bill in the drafting stage.
func New(title string, category Category, origin House) (*Bill, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if !origin.IsValid() {
		return nil, ErrInvalidHouse
	}

	now := time.Now()
	return &Bill{
		ID:          uuid.NewString(),
		Title:       title,
		Category:    category,
		Status:      StatusDraft,
		OriginHouse: origin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Record appends a transition to the bill's history and moves its status.
// Legality is the lifecycle engine's concern; Record only refuses
// structurally invalid input.
func (b *Bill) Record(to Status, by Role, reason string, at time.Time) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if !by.CanMutate() {
		return ErrRoleNotPermitted
	}

	b.History = append(b.History, HistoryEntry{
		ID:          uuid.NewString(),
		FromStatus:  b.Status,
		ToStatus:    to,
		TriggeredBy: by,
		Reason:      reason,
		OccurredAt:  at,
	})
	b.Status = to
	b.UpdatedAt = at
	return nil
}

// LastTransition returns the most recent history entry, or nil if the bill
// has never moved.
func (b *Bill) LastTransition() *HistoryEntry {
	if len(b.History) == 0 {
		return nil
	}
	return &b.History[len(b.History)-1]
}
