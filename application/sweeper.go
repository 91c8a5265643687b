package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
	"github.com/sansadwatch/billflow/domain/lifecycle"
	"github.com/sansadwatch/billflow/domain/notification"
	"github.com/sansadwatch/billflow/infrastructure/logging"
)

// Sweeper periodically finds lapsed deadlines, emits expiry events, and
// executes the automatic transitions the catalog attaches to them (the
// fifteen-day presidential assent rule). Automatic transitions carry the
// ADMIN role: the constitution moves the bill, not an actor.
type Sweeper struct {
	service  *Service
	interval time.Duration
}

// SweeperConfig contains configuration for the sweeper.
type SweeperConfig struct {
	// Service is the record service the sweeper commits through.
	Service *Service

	// Interval is how often pending deadlines are swept.
	Interval time.Duration
}

// NewSweeper creates a deadline sweeper.
func NewSweeper(config SweeperConfig) (*Sweeper, error) {
	if config.Service == nil {
		return nil, errors.New("record service is required")
	}

	interval := config.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	return &Sweeper{
		service:  config.Service,
		interval: interval,
	}, nil
}

// Run sweeps on the configured interval until the context is cancelled.
func (w *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				logging.Error().
					Add(logging.Err(err)).
					Msg("deadline sweep failed")
			}
		}
	}
}

// Sweep processes every deadline that has lapsed as of the service clock.
// It returns the number of records processed. Per-record failures are
// logged and skipped so one stuck bill cannot block the rest of the sweep.
func (w *Sweeper) Sweep(ctx context.Context) (int, error) {
	s := w.service
	now := s.now()

	expired, err := s.deadlines.ListPending(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list lapsed deadlines: %w", err)
	}

	processed := 0
	for _, rec := range expired {
		if err := w.expire(ctx, rec); err != nil {
			logging.Warn().
				Add(logging.BillID(rec.BillID)).
				Add(logging.DeadlineKind(rec.Instance.Kind)).
				Add(logging.Err(err)).
				Msg("deadline expiry handling failed")
			continue
		}
		processed++
	}

	if processed > 0 {
		logging.Info().
			Add(logging.Int("processed", processed)).
			Msg("deadline sweep completed")
	}
	return processed, nil
}

// expire handles one lapsed deadline record.
func (w *Sweeper) expire(ctx context.Context, rec *deadline.Record) error {
	s := w.service

	s.metrics.RecordDeadlineExpired(ctx, rec.Instance.Kind)
	w.notifyExpired(ctx, rec)

	if rec.Instance.AutoAction == "" {
		// Nothing moves automatically; completing the record stops it
		// from re-firing on the next sweep.
		return s.deadlines.Complete(ctx, rec.ID)
	}

	b, err := s.bills.Get(ctx, rec.BillID)
	if err != nil {
		return err
	}

	// Pending records are deleted when their bill changes status, so the
	// bill still being elsewhere means a transition raced the sweep.
	tr := lifecycle.Transition{
		To:          rec.Instance.AutoAction,
		Label:       "Automatic on deadline lapse",
		SideEffects: []lifecycle.SideEffect{lifecycle.EffectLogTransition},
	}
	reason := fmt.Sprintf("constitutional deadline lapsed: %s", rec.Instance.Kind)

	if _, err := s.commit(ctx, b, tr, bill.RoleAdmin, reason); err != nil {
		if errors.Is(err, bill.ErrStatusConflict) {
			return s.deadlines.Complete(ctx, rec.ID)
		}
		return err
	}
	return nil
}

// notifyExpired emits the deadline-expired event. Delivery failure is
// logged, never fatal to the sweep.
func (w *Sweeper) notifyExpired(ctx context.Context, rec *deadline.Record) {
	s := w.service
	if s.notifier == nil {
		return
	}

	event, err := notification.NewEvent(uuid.NewString(), notification.EventDeadlineExpired, rec.BillID,
		notification.DeadlineExpiredPayload{
			Kind:       rec.Instance.Kind,
			ExpiresAt:  rec.Instance.ExpiresAt,
			AutoAction: rec.Instance.AutoAction,
		})
	if err != nil {
		return
	}

	if err := s.notifier.Notify(ctx, event); err != nil {
		logging.Warn().
			Add(logging.BillID(rec.BillID)).
			Add(logging.DeadlineKind(rec.Instance.Kind)).
			Add(logging.Err(err)).
			Msg("deadline expiry dispatch failed")
	}
}
