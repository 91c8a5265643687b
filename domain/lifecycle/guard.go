// Package lifecycle declares the bill state catalog and evaluates which
// transitions an actor may legally execute. It is pure: the catalog is
// immutable after construction and every call is a function of its
// arguments, so concurrent use needs no coordination.
package lifecycle

import (
	"github.com/sansadwatch/billflow/domain/bill"
)

// CustomCheck names a validation the record service must perform before
// committing a transition. The engine exposes the requirement; it never
// holds the facts needed to evaluate it.
type CustomCheck string

// Known custom checks.
const (
	// CheckNone means no custom check applies.
	CheckNone CustomCheck = ""

	// CheckNoDoubleReturn requires that the President has not already
	// returned this bill once.
	CheckNoDoubleReturn CustomCheck = "CHECK_NO_DOUBLE_RETURN"
)

// Guard carries the preconditions attached to a transition. Role and
// category are static facts the evaluator filters on; quorum, deadline
// expiry, and custom checks are dynamic facts owned by other subsystems
// and only surfaced here as flags for the caller to enforce.
type Guard struct {
	// Roles is the set of actor roles authorized to invoke the transition.
	// A guard with no roles is unreachable and rejected at catalog
	// construction.
	Roles []bill.Role

	// RequiresQuorum marks transitions that need a verified vote quorum.
	RequiresQuorum bool

	// RequiresDeadlineExpiry marks transitions that may only run after
	// the source status's deadline has lapsed.
	RequiresDeadlineExpiry bool

	// Categories, if non-empty, restricts the transition to bills of the
	// listed categories.
	Categories []bill.Category

	// Check names an additional caller-evaluated validation.
	Check CustomCheck
}

// AllowsRole returns true if the role is in the guard's role set.
func (g Guard) AllowsRole(role bill.Role) bool {
	for _, r := range g.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AllowsCategory returns true if the guard has no category restriction or
// the category is in it.
func (g Guard) AllowsCategory(category bill.Category) bool {
	if len(g.Categories) == 0 {
		return true
	}
	for _, c := range g.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// IsDynamic returns true if the guard carries requirements the caller must
// confirm with runtime facts before committing the transition.
func (g Guard) IsDynamic() bool {
	return g.RequiresQuorum || g.RequiresDeadlineExpiry || g.Check != CheckNone
}
