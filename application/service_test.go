package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
	"github.com/sansadwatch/billflow/domain/notification"
	"github.com/sansadwatch/billflow/infrastructure/storage/memory"
)

// captureNotifier records every dispatched event.
type captureNotifier struct {
	events []*notification.Event
	fail   error
}

func (n *captureNotifier) Notify(ctx context.Context, event *notification.Event) error {
	return n.NotifyBatch(ctx, []*notification.Event{event})
}

func (n *captureNotifier) NotifyBatch(_ context.Context, events []*notification.Event) error {
	if n.fail != nil {
		return n.fail
	}
	n.events = append(n.events, events...)
	return nil
}

func (n *captureNotifier) Close() error { return nil }

func (n *captureNotifier) byType(t notification.EventType) []*notification.Event {
	var out []*notification.Event
	for _, e := range n.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// conflictStore wraps a bill store and forces the next UpdateStatus to
// lose the compare-and-swap.
type conflictStore struct {
	bill.Store
	conflictOnce bool
}

func (s *conflictStore) UpdateStatus(ctx context.Context, id string, prior, next bill.Status, entry bill.HistoryEntry) error {
	if s.conflictOnce {
		s.conflictOnce = false
		return bill.ErrStatusConflict
	}
	return s.Store.UpdateStatus(ctx, id, prior, next, entry)
}

func newTestService(t *testing.T) (*Service, *captureNotifier) {
	t.Helper()
	notifier := &captureNotifier{}
	svc, err := NewService(ServiceConfig{
		Bills:     memory.NewBillStore(),
		Deadlines: memory.NewDeadlineStore(),
		Notifier:  notifier,
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, notifier
}

func mustCreate(t *testing.T, svc *Service, category bill.Category) *bill.Bill {
	t.Helper()
	b, err := svc.Create(context.Background(), CreateInput{
		Title:       "Test Bill",
		Category:    category,
		OriginHouse: bill.HouseOfRepresentatives,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return b
}

// advance walks a bill along a path of (target, actor) steps, confirming
// every dynamic fact.
func advance(t *testing.T, svc *Service, id string, steps []struct {
	to    bill.Status
	actor bill.Role
}) *bill.Bill {
	t.Helper()
	ctx := context.Background()
	facts := Facts{QuorumMet: true, DeadlineExpired: true}

	var b *bill.Bill
	var err error
	for _, step := range steps {
		b, err = svc.Apply(ctx, id, step.to, step.actor, facts, "")
		if err != nil {
			t.Fatalf("Apply(%s as %s) failed: %v", step.to, step.actor, err)
		}
	}
	return b
}

func TestServiceCreate(t *testing.T) {
	svc, _ := newTestService(t)

	b := mustCreate(t, svc, bill.CategoryGovernment)
	if b.Status != bill.StatusDraft {
		t.Errorf("Status = %s, want %s", b.Status, bill.StatusDraft)
	}

	stored, err := svc.Get(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Title != "Test Bill" {
		t.Errorf("Title = %q, want %q", stored.Title, "Test Bill")
	}
}

func TestServiceCreateInvalid(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Category:    bill.CategoryGovernment,
		OriginHouse: bill.HouseOfRepresentatives,
	})
	if !errors.Is(err, bill.ErrEmptyTitle) {
		t.Errorf("error = %v, want ErrEmptyTitle", err)
	}
}

func TestServiceApply(t *testing.T) {
	svc, notifier := newTestService(t)
	b := mustCreate(t, svc, bill.CategoryGovernment)
	ctx := context.Background()

	updated, err := svc.Apply(ctx, b.ID, bill.StatusLawMinistryReview, bill.RoleMinistry, Facts{}, "submitted for review")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if updated.Status != bill.StatusLawMinistryReview {
		t.Errorf("Status = %s, want %s", updated.Status, bill.StatusLawMinistryReview)
	}
	if len(updated.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(updated.History))
	}
	entry := updated.History[0]
	if entry.FromStatus != bill.StatusDraft || entry.ToStatus != bill.StatusLawMinistryReview {
		t.Errorf("entry = %s -> %s, want DRAFT -> LAW_MINISTRY_REVIEW", entry.FromStatus, entry.ToStatus)
	}
	if entry.Reason != "submitted for review" {
		t.Errorf("Reason = %q, want %q", entry.Reason, "submitted for review")
	}

	stored, err := svc.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Status != bill.StatusLawMinistryReview {
		t.Errorf("stored Status = %s, want %s", stored.Status, bill.StatusLawMinistryReview)
	}

	applied := notifier.byType(notification.EventTransitionApplied)
	if len(applied) != 1 {
		t.Fatalf("transition_applied events = %d, want 1", len(applied))
	}
	intents := notifier.byType(notification.EventSideEffectIntent)
	if len(intents) != 2 {
		t.Errorf("side_effect events = %d, want 2 (log + notify law ministry)", len(intents))
	}
}

func TestServiceApplyDeniedRole(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, bill.CategoryGovernment)

	_, err := svc.Apply(context.Background(), b.ID, bill.StatusLawMinistryReview, bill.RolePublic, Facts{}, "")
	if !errors.Is(err, ErrTransitionNotAllowed) {
		t.Errorf("error = %v, want ErrTransitionNotAllowed", err)
	}
}

func TestServiceApplyDeniedTarget(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, bill.CategoryGovernment)

	_, err := svc.Apply(context.Background(), b.ID, bill.StatusAssented, bill.RoleMinistry, Facts{}, "")
	if !errors.Is(err, ErrTransitionNotAllowed) {
		t.Errorf("error = %v, want ErrTransitionNotAllowed", err)
	}
}

func TestServiceApplyNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Apply(context.Background(), "missing", bill.StatusLawMinistryReview, bill.RoleMinistry, Facts{}, "")
	if !errors.Is(err, bill.ErrBillNotFound) {
		t.Errorf("error = %v, want ErrBillNotFound", err)
	}
}

func TestServiceApplyQuorum(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, bill.CategoryGovernment)
	ctx := context.Background()

	advance(t, svc, b.ID, []struct {
		to    bill.Status
		actor bill.Role
	}{
		{bill.StatusLawMinistryReview, bill.RoleMinistry},
		{bill.StatusCabinetApproved, bill.RoleMinistry},
		{bill.StatusRegistered, bill.RoleSecretariat},
		{bill.StatusFirstReading, bill.RoleSecretariat},
		{bill.StatusCommitteeReview, bill.RoleSpeaker},
	})

	_, err := svc.Apply(ctx, b.ID, bill.StatusClauseVoting, bill.RoleSpeaker, Facts{}, "")
	if !errors.Is(err, ErrQuorumNotMet) {
		t.Fatalf("error = %v, want ErrQuorumNotMet", err)
	}

	updated, err := svc.Apply(ctx, b.ID, bill.StatusClauseVoting, bill.RoleSpeaker, Facts{QuorumMet: true}, "")
	if err != nil {
		t.Fatalf("Apply with quorum failed: %v", err)
	}
	if updated.Status != bill.StatusClauseVoting {
		t.Errorf("Status = %s, want %s", updated.Status, bill.StatusClauseVoting)
	}
}

func TestServiceApplyDeadlineExpiry(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, bill.CategoryGovernment)
	ctx := context.Background()

	advance(t, svc, b.ID, []struct {
		to    bill.Status
		actor bill.Role
	}{
		{bill.StatusLawMinistryReview, bill.RoleMinistry},
		{bill.StatusCabinetApproved, bill.RoleMinistry},
		{bill.StatusRegistered, bill.RoleSecretariat},
	})

	_, err := svc.Apply(ctx, b.ID, bill.StatusFirstReading, bill.RoleSecretariat, Facts{}, "")
	if !errors.Is(err, ErrDeadlineNotExpired) {
		t.Fatalf("error = %v, want ErrDeadlineNotExpired", err)
	}

	if _, err := svc.Apply(ctx, b.ID, bill.StatusFirstReading, bill.RoleSecretariat, Facts{DeadlineExpired: true}, ""); err != nil {
		t.Fatalf("Apply with expired notice failed: %v", err)
	}
}

func TestServiceApplyCreatesDeadlines(t *testing.T) {
	svc, notifier := newTestService(t)
	b := mustCreate(t, svc, bill.CategoryGovernment)
	ctx := context.Background()

	advance(t, svc, b.ID, []struct {
		to    bill.Status
		actor bill.Role
	}{
		{bill.StatusLawMinistryReview, bill.RoleMinistry},
		{bill.StatusCabinetApproved, bill.RoleMinistry},
		{bill.StatusRegistered, bill.RoleSecretariat},
	})

	records, err := svc.Deadlines(ctx, b.ID)
	if err != nil {
		t.Fatalf("Deadlines failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("deadline records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Instance.Kind != deadline.KindGovernmentBillNotice {
		t.Errorf("Kind = %s, want %s", rec.Instance.Kind, deadline.KindGovernmentBillNotice)
	}
	if rec.Instance.DurationDays != 2 {
		t.Errorf("DurationDays = %d, want 2", rec.Instance.DurationDays)
	}

	created := notifier.byType(notification.EventDeadlineCreated)
	if len(created) != 1 {
		t.Errorf("deadline_created events = %d, want 1", len(created))
	}
}

func TestServiceApplySupersedesDeadlines(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, bill.CategoryGovernment)
	ctx := context.Background()

	advance(t, svc, b.ID, []struct {
		to    bill.Status
		actor bill.Role
	}{
		{bill.StatusLawMinistryReview, bill.RoleMinistry},
		{bill.StatusCabinetApproved, bill.RoleMinistry},
		{bill.StatusRegistered, bill.RoleSecretariat},
		{bill.StatusFirstReading, bill.RoleSecretariat},
	})

	// Leaving REGISTERED must clear the notice deadline.
	records, err := svc.Deadlines(ctx, b.ID)
	if err != nil {
		t.Fatalf("Deadlines failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("deadline records = %d, want 0 after leaving REGISTERED", len(records))
	}
}

func TestServiceApplyNoDoubleReturn(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, bill.CategoryGovernment)
	ctx := context.Background()

	toPresident := []struct {
		to    bill.Status
		actor bill.Role
	}{
		{bill.StatusLawMinistryReview, bill.RoleMinistry},
		{bill.StatusCabinetApproved, bill.RoleMinistry},
		{bill.StatusRegistered, bill.RoleSecretariat},
		{bill.StatusFirstReading, bill.RoleSecretariat},
		{bill.StatusGeneralDiscussion, bill.RoleSpeaker},
		{bill.StatusCommitteeReview, bill.RoleSpeaker},
		{bill.StatusClauseVoting, bill.RoleSpeaker},
		{bill.StatusFirstHousePassed, bill.RoleSpeaker},
		{bill.StatusSecondHouse, bill.RoleSecretariat},
		{bill.StatusSpeakerCert, bill.RoleSpeaker},
		{bill.StatusPresidentialRev, bill.RoleSpeaker},
	}
	advance(t, svc, b.ID, toPresident)

	// First return is allowed and increments the return count.
	returned, err := svc.Apply(ctx, b.ID, bill.StatusGeneralDiscussion, bill.RolePresident, Facts{}, "returned with message")
	if err != nil {
		t.Fatalf("first return failed: %v", err)
	}
	if returned.ReturnCount != 1 {
		t.Errorf("ReturnCount = %d, want 1", returned.ReturnCount)
	}

	stored, err := svc.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.ReturnCount != 1 {
		t.Errorf("stored ReturnCount = %d, want 1", stored.ReturnCount)
	}

	// Walk the bill back to the President.
	advance(t, svc, b.ID, []struct {
		to    bill.Status
		actor bill.Role
	}{
		{bill.StatusCommitteeReview, bill.RoleSpeaker},
		{bill.StatusClauseVoting, bill.RoleSpeaker},
		{bill.StatusFirstHousePassed, bill.RoleSpeaker},
		{bill.StatusSecondHouse, bill.RoleSecretariat},
		{bill.StatusSpeakerCert, bill.RoleSpeaker},
		{bill.StatusPresidentialRev, bill.RoleSpeaker},
	})

	// A second return is unconstitutional.
	_, err = svc.Apply(ctx, b.ID, bill.StatusGeneralDiscussion, bill.RolePresident, Facts{}, "")
	if !errors.Is(err, ErrBillAlreadyReturned) {
		t.Errorf("error = %v, want ErrBillAlreadyReturned", err)
	}

	// Assent is still available.
	if _, err := svc.Apply(ctx, b.ID, bill.StatusAssented, bill.RolePresident, Facts{}, ""); err != nil {
		t.Errorf("assent after return failed: %v", err)
	}
}

func TestServiceApplyMoneyBillNotReturnable(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, bill.CategoryMoney)
	ctx := context.Background()

	advance(t, svc, b.ID, []struct {
		to    bill.Status
		actor bill.Role
	}{
		{bill.StatusLawMinistryReview, bill.RoleMinistry},
		{bill.StatusCabinetApproved, bill.RoleMinistry},
		{bill.StatusRegistered, bill.RoleSecretariat},
		{bill.StatusFirstReading, bill.RoleSecretariat},
		{bill.StatusGeneralDiscussion, bill.RoleSpeaker},
		{bill.StatusCommitteeReview, bill.RoleSpeaker},
		{bill.StatusClauseVoting, bill.RoleSpeaker},
		{bill.StatusFirstHousePassed, bill.RoleSpeaker},
		{bill.StatusSecondHouse, bill.RoleSecretariat},
		{bill.StatusSpeakerCert, bill.RoleSpeaker},
		{bill.StatusPresidentialRev, bill.RoleSpeaker},
	})

	_, err := svc.Apply(ctx, b.ID, bill.StatusGeneralDiscussion, bill.RolePresident, Facts{}, "")
	if !errors.Is(err, ErrTransitionNotAllowed) {
		t.Errorf("error = %v, want ErrTransitionNotAllowed for money bill return", err)
	}
}

func TestServiceApplyStatusConflict(t *testing.T) {
	store := &conflictStore{Store: memory.NewBillStore(), conflictOnce: true}
	svc, err := NewService(ServiceConfig{
		Bills:     store,
		Deadlines: memory.NewDeadlineStore(),
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateInput{
		Title:       "Racing Bill",
		Category:    bill.CategoryGovernment,
		OriginHouse: bill.HouseOfRepresentatives,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = svc.Apply(ctx, b.ID, bill.StatusLawMinistryReview, bill.RoleMinistry, Facts{}, "")
	if !errors.Is(err, bill.ErrStatusConflict) {
		t.Fatalf("error = %v, want ErrStatusConflict", err)
	}

	// The retry wins.
	if _, err := svc.Apply(ctx, b.ID, bill.StatusLawMinistryReview, bill.RoleMinistry, Facts{}, ""); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestServiceApplyDispatchFailureNonFatal(t *testing.T) {
	notifier := &captureNotifier{fail: errors.New("endpoint down")}
	svc, err := NewService(ServiceConfig{
		Bills:     memory.NewBillStore(),
		Deadlines: memory.NewDeadlineStore(),
		Notifier:  notifier,
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	ctx := context.Background()

	b := mustCreate(t, svc, bill.CategoryGovernment)
	updated, err := svc.Apply(ctx, b.ID, bill.StatusLawMinistryReview, bill.RoleMinistry, Facts{}, "")
	if err != nil {
		t.Fatalf("Apply failed despite dispatch failure: %v", err)
	}
	if updated.Status != bill.StatusLawMinistryReview {
		t.Errorf("Status = %s, want %s", updated.Status, bill.StatusLawMinistryReview)
	}
}

func TestServiceAvailable(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, bill.CategoryGovernment)

	transitions, err := svc.Available(context.Background(), b.ID, bill.RoleMinistry)
	if err != nil {
		t.Fatalf("Available failed: %v", err)
	}
	if len(transitions) != 2 {
		t.Fatalf("transitions = %d, want 2 (review + withdraw)", len(transitions))
	}

	public, err := svc.Available(context.Background(), b.ID, bill.RolePublic)
	if err != nil {
		t.Fatalf("Available failed: %v", err)
	}
	if len(public) != 0 {
		t.Errorf("public transitions = %d, want 0", len(public))
	}
}

func TestServiceDelete(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, bill.CategoryGovernment)
	ctx := context.Background()

	if err := svc.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, b.ID); !errors.Is(err, bill.ErrBillNotFound) {
		t.Errorf("error = %v, want ErrBillNotFound", err)
	}
}

func TestServiceClockInjection(t *testing.T) {
	fixed := time.Date(2026, time.May, 10, 8, 0, 0, 0, time.UTC)
	svc, err := NewService(ServiceConfig{
		Bills:     memory.NewBillStore(),
		Deadlines: memory.NewDeadlineStore(),
		Now:       func() time.Time { return fixed },
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	ctx := context.Background()

	b := mustCreate(t, svc, bill.CategoryGovernment)
	updated, err := svc.Apply(ctx, b.ID, bill.StatusLawMinistryReview, bill.RoleMinistry, Facts{}, "")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !updated.History[0].OccurredAt.Equal(fixed) {
		t.Errorf("OccurredAt = %v, want %v", updated.History[0].OccurredAt, fixed)
	}
}
