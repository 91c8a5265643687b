package lifecycle

import (
	"time"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
)

// Engine is the single seam callers use to ask lifecycle questions. It
// holds no mutable state: every method is a pure function of its
// arguments and the immutable catalog.
type Engine struct {
	catalog *Catalog
}

// NewEngine creates an engine over the given catalog.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// NewDefaultEngine creates an engine over the canonical catalog.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultCatalog())
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// AvailableTransitions returns the outgoing transitions of status that the
// role may execute for a bill of the given category. Only the static
// role and category facts are evaluated; a transition whose guard carries
// RequiresQuorum, RequiresDeadlineExpiry, or a custom check still needs
// those facts confirmed by the caller before it is executable.
//
// An unknown status yields an empty list, never an error. Distinguishing
// "no transitions" from "invalid status" is the caller's data-integrity
// concern.
func (e *Engine) AvailableTransitions(status bill.Status, role bill.Role, category bill.Category) []Transition {
	def, ok := e.catalog.Definition(status)
	if !ok {
		return nil
	}

	var out []Transition
	for _, t := range def.Transitions {
		if !t.Guard.AllowsRole(role) {
			continue
		}
		if !t.Guard.AllowsCategory(category) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CanTransition reports whether target appears among the transitions
// available to the role for the category. Callers committing a transition
// must re-evaluate this immediately before the commit: the bill's current
// status is exactly the field a concurrent transition races to change.
func (e *Engine) CanTransition(status, target bill.Status, role bill.Role, category bill.Category) bool {
	for _, t := range e.AvailableTransitions(status, role, category) {
		if t.To == target {
			return true
		}
	}
	return false
}

// Transition returns the transition from status to target available to
// the role for the category, with its guard and side-effect intents. The
// second return is false when no such transition is available.
func (e *Engine) Transition(status, target bill.Status, role bill.Role, category bill.Category) (Transition, bool) {
	for _, t := range e.AvailableTransitions(status, role, category) {
		if t.To == target {
			return t, true
		}
	}
	return Transition{}, false
}

// StateDefinition returns the catalog definition for a status.
func (e *Engine) StateDefinition(status bill.Status) (Definition, bool) {
	return e.catalog.Definition(status)
}

// DeadlinesOnEntry returns the deadline instances created when a bill of
// the given category enters status at the given time. The caller persists
// them; this engine only computes.
func (e *Engine) DeadlinesOnEntry(status bill.Status, category bill.Category, at time.Time) []deadline.Instance {
	def, ok := e.catalog.Definition(status)
	if !ok {
		return nil
	}

	var out []deadline.Instance
	for _, spec := range def.Deadlines {
		if !spec.AppliesTo(category) {
			continue
		}
		out = append(out, deadline.New(spec.Kind, at, spec.AutoTransitionTo))
	}
	return out
}
