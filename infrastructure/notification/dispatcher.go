package notification

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
	"github.com/sansadwatch/billflow/domain/lifecycle"
	"github.com/sansadwatch/billflow/domain/notification"
	"github.com/sansadwatch/billflow/infrastructure/logging"
)

// DispatcherConfig configures the webhook dispatcher.
type DispatcherConfig struct {
	// Endpoints are the webhook endpoints to notify.
	Endpoints []*notification.Endpoint
	// SenderConfig configures the HTTP sender.
	SenderConfig SenderConfig
	// GlobalFilter is applied to all events before endpoint filters.
	GlobalFilter notification.EventFilter
}

// Dispatcher fans dispatch events out to configured webhook endpoints.
// It is the side-effect dispatcher: the lifecycle engine names intents,
// the record service hands them here, and receivers perform them.
type Dispatcher struct {
	config   DispatcherConfig
	sender   *Sender
	closed   bool
	closedMu sync.RWMutex
}

// NewDispatcher creates a webhook dispatcher.
func NewDispatcher(config DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		config: config,
		sender: NewSender(config.SenderConfig),
	}
}

// Notify sends a single event to all configured endpoints.
func (d *Dispatcher) Notify(ctx context.Context, event *notification.Event) error {
	return d.NotifyBatch(ctx, []*notification.Event{event})
}

// NotifyBatch sends multiple events to all configured endpoints.
func (d *Dispatcher) NotifyBatch(ctx context.Context, events []*notification.Event) error {
	d.closedMu.RLock()
	if d.closed {
		d.closedMu.RUnlock()
		return notification.ErrNotifierClosed
	}
	d.closedMu.RUnlock()

	if d.config.GlobalFilter != nil {
		filtered := events[:0:0]
		for _, e := range events {
			if d.config.GlobalFilter(e) {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}
	if len(events) == 0 {
		return nil
	}

	var errs []error
	for _, endpoint := range d.config.Endpoints {
		if endpoint == nil || !endpoint.Enabled {
			continue
		}

		send := events
		if endpoint.Filter != nil {
			send = send[:0:0]
			for _, e := range events {
				if endpoint.Filter(e) {
					send = append(send, e)
				}
			}
		}
		if len(send) == 0 {
			continue
		}

		if err := d.sender.SendBatch(ctx, endpoint, send); err != nil {
			logging.Warn().
				Add(logging.Err(err)).
				Msg("webhook delivery failed: " + endpoint.URL)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Close marks the dispatcher closed. Further Notify calls fail.
func (d *Dispatcher) Close() error {
	d.closedMu.Lock()
	defer d.closedMu.Unlock()
	d.closed = true
	return nil
}

// EventsForTransition expands an applied transition into the dispatch
// events its side-effect intents imply, plus one event per deadline the
// target status created.
func EventsForTransition(b *bill.Bill, tr lifecycle.Transition, from bill.Status, actor bill.Role, created []deadline.Instance) ([]*notification.Event, error) {
	var events []*notification.Event

	applied, err := notification.NewEvent(uuid.NewString(), notification.EventTransitionApplied, b.ID,
		notification.TransitionAppliedPayload{
			FromStatus: from,
			ToStatus:   tr.To,
			Actor:      actor,
			Label:      tr.Label,
		})
	if err != nil {
		return nil, err
	}
	events = append(events, applied)

	for _, intent := range tr.SideEffects {
		e, err := notification.NewEvent(uuid.NewString(), notification.EventSideEffectIntent, b.ID,
			notification.SideEffectPayload{
				Intent:     intent,
				FromStatus: from,
				ToStatus:   tr.To,
			})
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	for _, inst := range created {
		e, err := notification.NewEvent(uuid.NewString(), notification.EventDeadlineCreated, b.ID,
			notification.DeadlineCreatedPayload{
				Kind:      inst.Kind,
				StartsAt:  inst.StartsAt,
				ExpiresAt: inst.ExpiresAt,
				Days:      inst.DurationDays,
			})
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, nil
}
