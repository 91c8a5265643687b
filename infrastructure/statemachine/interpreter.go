package statemachine

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/sansadwatch/billflow/domain/bill"
)

// Interpreter wraps the statekit interpreter with bill-specific behavior.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates an interpreter for the bill state machine.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// Start enters the initial state. Bills restored from storage should call
// ResumeFrom instead.
func (i *Interpreter) Start() {
	i.interp.Start()
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// State returns the current bill status.
func (i *Interpreter) State() bill.Status {
	state := i.interp.State()
	return StatusFromMachine(state.Value)
}

// Transition attempts to move the bill to the target status. The guard and
// the history recording run inside the machine.
func (i *Interpreter) Transition(to bill.Status, reason string, at time.Time) error {
	if !i.CanTransition(to) {
		return fmt.Errorf("transition from %s to %s not allowed for %s", i.ctx.Bill.Status, to, i.ctx.Actor)
	}

	event := statekit.Event{
		Type: EventForTransition(to),
		Payload: TransitionPayload{
			Reason: reason,
			At:     at,
		},
	}
	i.interp.Send(event)

	if i.State() != to {
		return fmt.Errorf("transition from %s to %s rejected by guard", i.ctx.Bill.Status, to)
	}
	return nil
}

// CanTransition reports whether the target status is reachable from the
// bill's current status for the acting role.
func (i *Interpreter) CanTransition(to bill.Status) bool {
	return i.ctx.Engine.CanTransition(i.ctx.Bill.Status, to, i.ctx.Actor, i.ctx.Bill.Category)
}

// IsTerminal reports whether the bill has reached its final status.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

// Matches checks whether the current state matches the given status.
func (i *Interpreter) Matches(status bill.Status) bool {
	return i.interp.Matches(statekit.StateID(status))
}

// ResumeFrom restores the interpreter to the bill's persisted status.
func (i *Interpreter) ResumeFrom(status bill.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", bill.ErrInvalidStatus, string(status))
	}

	snapshot := statekit.Snapshot[*Context]{
		MachineID:    MachineID,
		CurrentState: statekit.StateID(status),
		Context:      i.ctx,
		CreatedAt:    time.Now().UTC(),
	}
	if err := i.interp.Restore(snapshot); err != nil {
		return fmt.Errorf("failed to restore status: %w", err)
	}
	i.ctx.Bill.Status = status
	return nil
}
