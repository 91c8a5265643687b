package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/sansadwatch/billflow/domain/bill"
)

// guardTransitionAllowed evaluates the catalog guard for the edge the event
// targets. Dynamic conditions (quorum, deadline expiry, custom checks) are
// the caller's responsibility; the machine enforces the static role and
// category constraints.
func guardTransitionAllowed(ctx *Context, event statekit.Event) bool {
	if ctx == nil || ctx.Bill == nil || ctx.Engine == nil {
		return false
	}
	target := bill.Status(event.Type)
	if !target.IsValid() {
		return false
	}
	return ctx.Engine.CanTransition(ctx.Bill.Status, target, ctx.Actor, ctx.Bill.Category)
}
