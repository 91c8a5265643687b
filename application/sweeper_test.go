package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
	"github.com/sansadwatch/billflow/domain/notification"
	"github.com/sansadwatch/billflow/infrastructure/storage/memory"
)

func newSweeperFixture(t *testing.T, now time.Time) (*Service, *Sweeper, *captureNotifier) {
	t.Helper()
	notifier := &captureNotifier{}
	svc, err := NewService(ServiceConfig{
		Bills:     memory.NewBillStore(),
		Deadlines: memory.NewDeadlineStore(),
		Notifier:  notifier,
		Now:       func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	sweeper, err := NewSweeper(SweeperConfig{Service: svc})
	if err != nil {
		t.Fatalf("NewSweeper failed: %v", err)
	}
	return svc, sweeper, notifier
}

// seedDeadline stores a bill at the given status with one deadline record.
func seedDeadline(t *testing.T, svc *Service, status bill.Status, inst deadline.Instance) *bill.Bill {
	t.Helper()
	ctx := context.Background()

	b := mustCreate(t, svc, bill.CategoryGovernment)
	b.Status = status
	if err := svc.bills.Update(ctx, b); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	rec := &deadline.Record{
		ID:        uuid.NewString(),
		BillID:    b.ID,
		Instance:  inst,
		CreatedAt: inst.StartsAt,
	}
	if err := svc.deadlines.Save(ctx, rec); err != nil {
		t.Fatalf("Save deadline failed: %v", err)
	}
	return b
}

func TestNewSweeperRequiresService(t *testing.T) {
	if _, err := NewSweeper(SweeperConfig{}); err == nil {
		t.Fatal("expected error for missing service")
	}
}

func TestSweepNothingPending(t *testing.T) {
	_, sweeper, _ := newSweeperFixture(t, time.Now().UTC())

	n, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if n != 0 {
		t.Errorf("processed = %d, want 0", n)
	}
}

func TestSweepAutoAssent(t *testing.T) {
	now := time.Date(2026, time.June, 20, 12, 0, 0, 0, time.UTC)
	svc, sweeper, notifier := newSweeperFixture(t, now)
	ctx := context.Background()

	// Assent window opened 16 days ago; the 15-day window has lapsed.
	start := now.AddDate(0, 0, -16)
	b := seedDeadline(t, svc, bill.StatusPresidentialRev,
		deadline.New(deadline.KindPresidentialAssent, start, bill.StatusAssented))

	n, err := sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("processed = %d, want 1", n)
	}

	moved, err := svc.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if moved.Status != bill.StatusAssented {
		t.Errorf("Status = %s, want %s", moved.Status, bill.StatusAssented)
	}

	last := moved.LastTransition()
	if last == nil {
		t.Fatal("expected a history entry for the automatic transition")
	}
	if last.TriggeredBy != bill.RoleAdmin {
		t.Errorf("TriggeredBy = %s, want %s", last.TriggeredBy, bill.RoleAdmin)
	}

	expired := notifier.byType(notification.EventDeadlineExpired)
	if len(expired) != 1 {
		t.Errorf("deadline_expired events = %d, want 1", len(expired))
	}

	// The lapsed record is gone; the sweep must not process it again.
	records, err := svc.Deadlines(ctx, b.ID)
	if err != nil {
		t.Fatalf("Deadlines failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("deadline records = %d, want 0 after auto transition", len(records))
	}

	n, err = sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("second Sweep failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second sweep processed = %d, want 0", n)
	}
}

func TestSweepCompletesWithoutAutoAction(t *testing.T) {
	now := time.Date(2026, time.June, 20, 12, 0, 0, 0, time.UTC)
	svc, sweeper, notifier := newSweeperFixture(t, now)
	ctx := context.Background()

	// Amendment window lapsed four days ago; nothing moves automatically.
	start := now.AddDate(0, 0, -4)
	b := seedDeadline(t, svc, bill.StatusAmendmentWindow,
		deadline.New(deadline.KindAmendmentWindow, start, ""))

	n, err := sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("processed = %d, want 1", n)
	}

	unchanged, err := svc.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if unchanged.Status != bill.StatusAmendmentWindow {
		t.Errorf("Status = %s, want unchanged %s", unchanged.Status, bill.StatusAmendmentWindow)
	}

	if len(notifier.byType(notification.EventDeadlineExpired)) != 1 {
		t.Error("expected one deadline_expired event")
	}

	// Completed, so a second sweep sees nothing.
	n, err = sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("second Sweep failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second sweep processed = %d, want 0", n)
	}
}

func TestSweepIgnoresUnexpired(t *testing.T) {
	now := time.Date(2026, time.June, 20, 12, 0, 0, 0, time.UTC)
	svc, sweeper, _ := newSweeperFixture(t, now)
	ctx := context.Background()

	// Window opened yesterday; thirteen days remain.
	b := seedDeadline(t, svc, bill.StatusPresidentialRev,
		deadline.New(deadline.KindPresidentialAssent, now.AddDate(0, 0, -1), bill.StatusAssented))

	n, err := sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if n != 0 {
		t.Errorf("processed = %d, want 0", n)
	}

	unchanged, err := svc.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if unchanged.Status != bill.StatusPresidentialRev {
		t.Errorf("Status = %s, want unchanged %s", unchanged.Status, bill.StatusPresidentialRev)
	}
}

func TestSweepRunStopsOnCancel(t *testing.T) {
	_, sweeper, _ := newSweeperFixture(t, time.Now().UTC())
	sweeper.interval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := sweeper.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("Run returned %v, want context.DeadlineExceeded", err)
	}
}
