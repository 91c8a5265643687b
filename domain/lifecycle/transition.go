package lifecycle

import (
	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
)

// SideEffect names an action a transition implies should happen. The
// engine returns these intents; execution belongs entirely to the
// external dispatcher.
type SideEffect string

// Known side-effect intents.
const (
	EffectLogTransition              SideEffect = "LOG_TRANSITION"
	EffectNotifyLawMinistry          SideEffect = "NOTIFY_LAW_MINISTRY"
	EffectNotifyCommittee            SideEffect = "NOTIFY_COMMITTEE"
	EffectNotifyAllMembers           SideEffect = "NOTIFY_ALL_MEMBERS"
	EffectNotifySecondHouse          SideEffect = "NOTIFY_SECOND_HOUSE"
	EffectNotifyJointSitting         SideEffect = "NOTIFY_JOINT_SITTING"
	EffectNotifyPresident            SideEffect = "NOTIFY_PRESIDENT"
	EffectNotifyAll                  SideEffect = "NOTIFY_ALL"
	EffectAssignBillNumber           SideEffect = "ASSIGN_BILL_NUMBER"
	EffectCreateNoticeDeadline       SideEffect = "CREATE_NOTICE_DEADLINE"
	EffectCreateAmendmentDeadline    SideEffect = "CREATE_AMENDMENT_DEADLINE"
	EffectCreateSecondHouseDeadline  SideEffect = "CREATE_SECOND_HOUSE_DEADLINE"
	EffectCreatePresidentialDeadline SideEffect = "CREATE_PRESIDENTIAL_DEADLINE"
	EffectCreateGazetteEntry         SideEffect = "CREATE_GAZETTE_ENTRY"
	EffectIncrementReturnCount       SideEffect = "INCREMENT_RETURN_COUNT"
)

// String returns the string representation of the side effect.
func (s SideEffect) String() string {
	return string(s)
}

// Transition is a directed edge in the bill state graph.
type Transition struct {
	// To is the target status.
	To bill.Status

	// Label is the action text shown on dashboard buttons.
	Label string

	// Guard holds the transition's preconditions.
	Guard Guard

	// SideEffects are the intents the dispatcher should execute when the
	// transition is committed.
	SideEffects []SideEffect
}

// DeadlineSpec declares a deadline created when a bill enters a status.
type DeadlineSpec struct {
	// Kind is the deadline kind; duration comes from the deadline
	// package's shared table.
	Kind deadline.Kind

	// Categories, if non-empty, restricts the deadline to bills of the
	// listed categories.
	Categories []bill.Category

	// AutoTransitionTo, if non-empty, names the status the bill should
	// automatically move to when the deadline lapses.
	AutoTransitionTo bill.Status
}

// AppliesTo returns true if the spec has no category restriction or the
// category is in it.
func (d DeadlineSpec) AppliesTo(category bill.Category) bool {
	if len(d.Categories) == 0 {
		return true
	}
	for _, c := range d.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Definition describes one status: its display text, outgoing transitions,
// and the deadlines entering it creates.
type Definition struct {
	Label       string
	Description string
	Transitions []Transition
	Deadlines   []DeadlineSpec
}
