// Package application provides the bill record service: the choreography
// that turns a legal transition into a committed status change with its
// deadlines and dispatch events.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
	"github.com/sansadwatch/billflow/domain/lifecycle"
	"github.com/sansadwatch/billflow/domain/notification"
	"github.com/sansadwatch/billflow/infrastructure/logging"
	webhooks "github.com/sansadwatch/billflow/infrastructure/notification"
	"github.com/sansadwatch/billflow/infrastructure/observability"
)

// Facts are the dynamic guard inputs the caller confirms before a
// transition commits. The lifecycle engine only flags which facts a
// transition needs; ownership of the underlying data (vote tallies,
// deadline clocks) stays with the caller.
type Facts struct {
	// QuorumMet confirms a verified vote quorum.
	QuorumMet bool

	// DeadlineExpired confirms the source status's deadline has lapsed.
	DeadlineExpired bool
}

// Service is the bill record service.
type Service struct {
	bills     bill.Store
	deadlines deadline.Store
	engine    *lifecycle.Engine
	notifier  notification.Notifier
	metrics   *observability.Metrics
	tracer    trace.Tracer
	now       func() time.Time
}

// ServiceConfig contains configuration for the record service.
type ServiceConfig struct {
	Bills     bill.Store
	Deadlines deadline.Store
	Engine    *lifecycle.Engine
	Notifier  notification.Notifier
	Metrics   *observability.Metrics
	Tracer    trace.Tracer
	Now       func() time.Time
}

// NewService creates a record service with the given configuration.
func NewService(config ServiceConfig) (*Service, error) {
	if config.Bills == nil {
		return nil, errors.New("bill store is required")
	}
	if config.Deadlines == nil {
		return nil, errors.New("deadline store is required")
	}

	s := &Service{
		bills:     config.Bills,
		deadlines: config.Deadlines,
		engine:    config.Engine,
		notifier:  config.Notifier,
		metrics:   config.Metrics,
		tracer:    config.Tracer,
		now:       config.Now,
	}

	if s.engine == nil {
		s.engine = lifecycle.NewDefaultEngine()
	}
	if s.tracer == nil {
		s.tracer = noop.NewTracerProvider().Tracer("billflow")
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}

	return s, nil
}

// Engine returns the lifecycle engine the service evaluates against.
func (s *Service) Engine() *lifecycle.Engine {
	return s.engine
}

// CreateInput carries the fields for registering a new draft bill.
type CreateInput struct {
	Title       string
	TitleNe     string
	Summary     string
	Category    bill.Category
	OriginHouse bill.House
	FastTrack   bool
	Urgent      bool
}

// Create registers a new bill in the drafting stage.
func (s *Service) Create(ctx context.Context, input CreateInput) (*bill.Bill, error) {
	b, err := bill.New(input.Title, input.Category, input.OriginHouse)
	if err != nil {
		return nil, err
	}
	b.TitleNe = input.TitleNe
	b.Summary = input.Summary
	b.FastTrack = input.FastTrack
	b.Urgent = input.Urgent

	if err := s.bills.Save(ctx, b); err != nil {
		return nil, err
	}

	logging.Info().
		Add(logging.BillID(b.ID)).
		Add(logging.Category(b.Category)).
		Msg("bill created")

	return b, nil
}

// Get retrieves a bill by ID.
func (s *Service) Get(ctx context.Context, id string) (*bill.Bill, error) {
	return s.bills.Get(ctx, id)
}

// List returns bills matching the filter.
func (s *Service) List(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	return s.bills.List(ctx, filter)
}

// Count returns the number of bills matching the filter.
func (s *Service) Count(ctx context.Context, filter bill.ListFilter) (int64, error) {
	return s.bills.Count(ctx, filter)
}

// Delete removes a bill and its deadline records.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.bills.Delete(ctx, id); err != nil {
		return err
	}
	return s.deadlines.DeleteByBill(ctx, id)
}

// Available returns the transitions the role may currently execute on the
// bill. Dynamic guard requirements are included unevaluated.
func (s *Service) Available(ctx context.Context, id string, role bill.Role) ([]lifecycle.Transition, error) {
	b, err := s.bills.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.AvailableTransitions(b.Status, role, b.Category), nil
}

// Deadlines returns the bill's deadline records, oldest first.
func (s *Service) Deadlines(ctx context.Context, id string) ([]*deadline.Record, error) {
	return s.deadlines.ListByBill(ctx, id)
}

// Apply moves a bill to the target status on behalf of the acting role.
// Legality is re-evaluated against the bill's current status immediately
// before the commit, dynamic guard flags are enforced against the supplied
// facts, and the status swap is compare-and-swap so a racing transition is
// applied at most once. On success the returned bill carries the appended
// history entry.
func (s *Service) Apply(ctx context.Context, id string, target bill.Status, actor bill.Role, facts Facts, reason string) (*bill.Bill, error) {
	ctx, span := s.tracer.Start(ctx, "bill.apply_transition")
	defer span.End()

	b, err := s.bills.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tr, ok := s.engine.Transition(b.Status, target, actor, b.Category)
	if !ok {
		s.metrics.RecordTransitionDenied(ctx, b.Status, target, actor)
		logging.Warn().
			Add(logging.BillID(b.ID)).
			Add(logging.FromStatus(b.Status)).
			Add(logging.ToStatus(target)).
			Add(logging.Actor(actor)).
			Msg("transition denied")
		return nil, fmt.Errorf("%w: %s -> %s as %s", ErrTransitionNotAllowed, b.Status, target, actor)
	}

	if err := enforceFacts(tr.Guard, facts, b); err != nil {
		s.metrics.RecordTransitionDenied(ctx, b.Status, target, actor)
		return nil, err
	}

	return s.commit(ctx, b, tr, actor, reason)
}

// enforceFacts checks the guard's dynamic requirements against the facts
// the caller confirmed.
func enforceFacts(g lifecycle.Guard, facts Facts, b *bill.Bill) error {
	if g.RequiresQuorum && !facts.QuorumMet {
		return ErrQuorumNotMet
	}
	if g.RequiresDeadlineExpiry && !facts.DeadlineExpired {
		return ErrDeadlineNotExpired
	}
	if g.Check == lifecycle.CheckNoDoubleReturn && b.ReturnCount >= 1 {
		return ErrBillAlreadyReturned
	}
	return nil
}

// commit performs the compare-and-swap status change plus its follow-on
// bookkeeping: return-count increment, deadline records for the entered
// status, and dispatch events. Legality must already be established.
func (s *Service) commit(ctx context.Context, b *bill.Bill, tr lifecycle.Transition, actor bill.Role, reason string) (*bill.Bill, error) {
	now := s.now()
	from := b.Status

	entry := bill.HistoryEntry{
		ID:          uuid.NewString(),
		FromStatus:  from,
		ToStatus:    tr.To,
		TriggeredBy: actor,
		Reason:      reason,
		OccurredAt:  now,
	}

	if err := s.bills.UpdateStatus(ctx, b.ID, from, tr.To, entry); err != nil {
		return nil, err
	}

	b.History = append(b.History, entry)
	b.Status = tr.To
	b.UpdatedAt = now

	for _, effect := range tr.SideEffects {
		if effect == lifecycle.EffectIncrementReturnCount {
			b.ReturnCount++
			if err := s.bills.Update(ctx, b); err != nil {
				return nil, fmt.Errorf("failed to record presidential return: %w", err)
			}
		}
	}

	// Deadlines from the exited status are superseded by the move.
	if err := s.deadlines.DeleteByBill(ctx, b.ID); err != nil {
		return nil, fmt.Errorf("failed to clear superseded deadlines: %w", err)
	}

	created := s.engine.DeadlinesOnEntry(tr.To, b.Category, now)
	for _, inst := range created {
		rec := &deadline.Record{
			ID:        uuid.NewString(),
			BillID:    b.ID,
			Instance:  inst,
			CreatedAt: now,
		}
		if err := s.deadlines.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to save deadline record: %w", err)
		}
		s.metrics.RecordDeadlineCreated(ctx, inst.Kind)
	}

	s.dispatch(ctx, b, tr, from, actor, created)
	s.metrics.RecordTransitionApplied(ctx, from, tr.To, actor)

	logging.Info().
		Add(logging.BillID(b.ID)).
		Add(logging.FromStatus(from)).
		Add(logging.ToStatus(tr.To)).
		Add(logging.Actor(actor)).
		Msg("transition applied")

	return b, nil
}

// dispatch emits the transition's events. Delivery failure never rolls
// back a committed transition; it is logged and left to the dispatcher's
// retry policy.
func (s *Service) dispatch(ctx context.Context, b *bill.Bill, tr lifecycle.Transition, from bill.Status, actor bill.Role, created []deadline.Instance) {
	if s.notifier == nil {
		return
	}

	events, err := webhooks.EventsForTransition(b, tr, from, actor, created)
	if err != nil {
		logging.Warn().
			Add(logging.BillID(b.ID)).
			Add(logging.Err(err)).
			Msg("failed to build dispatch events")
		return
	}

	if err := s.notifier.NotifyBatch(ctx, events); err != nil {
		logging.Warn().
			Add(logging.BillID(b.ID)).
			Add(logging.Err(err)).
			Msg("dispatch delivery failed")
	}
}
