package api

import (
	"github.com/sansadwatch/billflow/domain/lifecycle"
	"github.com/sansadwatch/billflow/infrastructure/statemachine"
)

// Interpreter re-exports the per-bill statechart interpreter.
type Interpreter = statemachine.Interpreter

// MachineContext re-exports the interpreter context.
type MachineContext = statemachine.Context

// NewBillInterpreter builds a statechart interpreter for one bill acting
// as the given role. The interpreter is resumed at the bill's current
// status; Transition runs guards and records history on the bill itself.
func NewBillInterpreter(b *Bill, actor Role) (*Interpreter, error) {
	engine := lifecycle.NewDefaultEngine()
	machine, err := statemachine.NewBillMachine(engine)
	if err != nil {
		return nil, err
	}

	interp := statemachine.NewInterpreter(machine, statemachine.NewContext(b, actor, engine))
	if err := interp.ResumeFrom(b.Status); err != nil {
		return nil, err
	}
	return interp, nil
}
