// Package statemachine provides the statekit integration for driving a
// single bill through the lifecycle catalog.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/lifecycle"
)

// Context carries one bill's state through the state machine.
type Context struct {
	Bill   *bill.Bill
	Actor  bill.Role
	Engine *lifecycle.Engine
}

// NewContext creates a machine context for a bill acted on by a role.
func NewContext(b *bill.Bill, actor bill.Role, engine *lifecycle.Engine) *Context {
	if engine == nil {
		engine = lifecycle.NewDefaultEngine()
	}
	return &Context{
		Bill:   b,
		Actor:  actor,
		Engine: engine,
	}
}

// MachineID identifies the bill statechart.
const MachineID = "bill"

// EventForTransition returns the event type that moves a bill to the
// target status. Each outgoing edge of a status has a distinct target, so
// the target status doubles as the event name.
func EventForTransition(to bill.Status) statekit.EventType {
	return statekit.EventType(to)
}

// StatusFromMachine converts the machine state ID to a domain status.
func StatusFromMachine(stateID statekit.StateID) bill.Status {
	return bill.Status(stateID)
}

// NewBillMachine builds the bill statechart from the lifecycle catalog.
// Every edge shares one guard (the role/category evaluation) and one
// action (recording the transition on the bill).
func NewBillMachine(engine *lifecycle.Engine) (*statekit.MachineConfig[*Context], error) {
	catalog := engine.Catalog()

	builder := statekit.NewMachine[*Context](MachineID).
		WithInitial(statekit.StateID(bill.StatusDraft)).
		WithContext(&Context{}).
		WithAction("recordTransition", recordTransition).
		WithGuard("transitionAllowed", guardTransitionAllowed)

	for _, status := range catalog.Statuses() {
		def, _ := catalog.Definition(status)

		state := builder.State(statekit.StateID(status))
		if status.IsTerminal() {
			state = state.Final()
		}

		if len(def.Transitions) == 0 {
			builder = state.Done()
			continue
		}

		edge := state.
			On(EventForTransition(def.Transitions[0].To)).
			Target(statekit.StateID(def.Transitions[0].To)).
			Guard("transitionAllowed").
			Do("recordTransition")
		for _, tr := range def.Transitions[1:] {
			edge = edge.
				On(EventForTransition(tr.To)).
				Target(statekit.StateID(tr.To)).
				Guard("transitionAllowed").
				Do("recordTransition")
		}
		builder = edge.Done()
	}

	return builder.Build()
}
