package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/infrastructure/logging"
)

// TransitionPayload carries per-transition detail into the machine action.
type TransitionPayload struct {
	Reason string
	At     time.Time
}

// recordTransition appends a history entry to the bill and advances its
// status. The payload supplies the reason and timestamp; an absent payload
// records the transition at the current time.
func recordTransition(ctx **Context, event statekit.Event) {
	c := *ctx
	if c == nil || c.Bill == nil {
		return
	}

	reason := ""
	at := time.Now().UTC()
	if payload, ok := event.Payload.(TransitionPayload); ok {
		reason = payload.Reason
		if !payload.At.IsZero() {
			at = payload.At
		}
	}

	from := c.Bill.Status
	to := bill.Status(event.Type)
	if err := c.Bill.Record(to, c.Actor, reason, at); err != nil {
		logging.Warn().
			Add(logging.BillID(c.Bill.ID)).
			Add(logging.Err(err)).
			Msg("transition not recorded")
		return
	}

	logging.Info().
		Add(logging.BillID(c.Bill.ID)).
		Add(logging.FromStatus(from)).
		Add(logging.ToStatus(to)).
		Add(logging.Actor(c.Actor)).
		Msg("bill transition recorded")
}
