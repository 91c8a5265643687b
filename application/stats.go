package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
)

// Stats computes the dashboard aggregates over the bill and deadline
// stores.
type Stats struct {
	bills     bill.Store
	deadlines deadline.Store
	now       func() time.Time
}

// StatsConfig contains configuration for the stats service.
type StatsConfig struct {
	Bills     bill.Store
	Deadlines deadline.Store
	Now       func() time.Time
}

// NewStats creates a stats service.
func NewStats(config StatsConfig) (*Stats, error) {
	if config.Bills == nil {
		return nil, errors.New("bill store is required")
	}
	if config.Deadlines == nil {
		return nil, errors.New("deadline store is required")
	}

	s := &Stats{
		bills:     config.Bills,
		deadlines: config.Deadlines,
		now:       config.Now,
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s, nil
}

// YearCount pairs a registration year with the number of bills from it.
type YearCount struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

// UpcomingDeadline is one pending deadline rendered for the dashboard.
type UpcomingDeadline struct {
	BillID    string           `json:"bill_id"`
	BillTitle string           `json:"bill_title"`
	Kind      deadline.Kind    `json:"kind"`
	ExpiresAt time.Time        `json:"expires_at"`
	Remaining string           `json:"remaining"`
	Urgency   deadline.Urgency `json:"urgency"`
}

// Dashboard is the aggregate view the public dashboard renders.
type Dashboard struct {
	Summary   bill.Summary       `json:"summary"`
	ByYear    []YearCount        `json:"by_year"`
	Upcoming  []UpcomingDeadline `json:"upcoming_deadlines"`
	Generated time.Time          `json:"generated_at"`
}

// Dashboard computes the full aggregate view. Upcoming deadlines cover the
// given horizon from the stats clock, soonest first.
func (s *Stats) Dashboard(ctx context.Context, horizon time.Duration) (Dashboard, error) {
	now := s.now()

	summary, err := s.Summary(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	byYear, err := s.ByYear(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	upcoming, err := s.Upcoming(ctx, horizon)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Summary:   summary,
		ByYear:    byYear,
		Upcoming:  upcoming,
		Generated: now,
	}, nil
}

// Summary returns the aggregate bill counts. Stores that implement
// bill.SummaryProvider answer directly; otherwise the summary is computed
// from a full listing.
func (s *Stats) Summary(ctx context.Context) (bill.Summary, error) {
	if provider, ok := s.bills.(bill.SummaryProvider); ok {
		return provider.Summary(ctx)
	}

	bills, err := s.bills.List(ctx, bill.ListFilter{})
	if err != nil {
		return bill.Summary{}, err
	}
	return summarize(bills), nil
}

// ByYear counts bills by registration year, most recent first.
func (s *Stats) ByYear(ctx context.Context) ([]YearCount, error) {
	bills, err := s.bills.List(ctx, bill.ListFilter{})
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64)
	for _, b := range bills {
		counts[b.CreatedAt.Year()]++
	}

	out := make([]YearCount, 0, len(counts))
	for year, count := range counts {
		out = append(out, YearCount{Year: year, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out, nil
}

// Upcoming returns pending deadlines expiring within the horizon, soonest
// first, rendered with countdown text and urgency tier.
func (s *Stats) Upcoming(ctx context.Context, horizon time.Duration) ([]UpcomingDeadline, error) {
	now := s.now()

	records, err := s.deadlines.ListPending(ctx, now.Add(horizon))
	if err != nil {
		return nil, err
	}

	out := make([]UpcomingDeadline, 0, len(records))
	for _, rec := range records {
		title := ""
		if b, err := s.bills.Get(ctx, rec.BillID); err == nil {
			title = b.Title
		}
		out = append(out, UpcomingDeadline{
			BillID:    rec.BillID,
			BillTitle: title,
			Kind:      rec.Instance.Kind,
			ExpiresAt: rec.Instance.ExpiresAt,
			Remaining: deadline.FormatRemaining(rec.Instance.ExpiresAt, now),
			Urgency:   deadline.UrgencyAt(rec.Instance.ExpiresAt, now),
		})
	}
	return out, nil
}

// summarize computes a bill.Summary from a listing, mirroring what the
// store-level aggregation returns.
func summarize(bills []*bill.Bill) bill.Summary {
	summary := bill.Summary{
		Total:      int64(len(bills)),
		ByHouse:    make(map[bill.House]int64),
		ByCategory: make(map[bill.Category]int64),
	}

	byStatus := make(map[bill.Status]int64)
	for _, b := range bills {
		byStatus[b.Status]++
		summary.ByHouse[b.OriginHouse]++
		summary.ByCategory[b.Category]++

		switch b.Status {
		case bill.StatusGazettePublished:
			summary.GazettePublished++
		case bill.StatusSpeakerCert, bill.StatusPresidentialRev:
			summary.AwaitingAuthentication++
		case bill.StatusCommitteeReview, bill.StatusClauseVoting:
			summary.InCommittee++
		}
	}

	summary.ByStatus = make([]bill.StatusCount, 0, len(byStatus))
	for status, count := range byStatus {
		summary.ByStatus = append(summary.ByStatus, bill.StatusCount{Status: status, Count: count})
	}
	sort.Slice(summary.ByStatus, func(i, j int) bool {
		if summary.ByStatus[i].Count != summary.ByStatus[j].Count {
			return summary.ByStatus[i].Count > summary.ByStatus[j].Count
		}
		return summary.ByStatus[i].Status < summary.ByStatus[j].Status
	})
	return summary
}
