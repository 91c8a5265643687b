package lifecycle

import (
	"fmt"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
)

// Rules maps each status to its definition. This is the declarative form
// the catalog is constructed from.
type Rules map[bill.Status]Definition

// Catalog is the validated, immutable transition graph. Build it once at
// startup and share it; reads are safe for concurrent use.
type Catalog struct {
	rules Rules
}

// NewCatalog validates the rules and returns a catalog. Validation
// failures are construction-time faults and should fail process startup.
func NewCatalog(rules Rules) (*Catalog, error) {
	c := &Catalog{rules: rules}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewCatalog is NewCatalog that panics on invalid rules. For use with
// the static default rules, whose validity is covered by tests.
func MustNewCatalog(rules Rules) *Catalog {
	c, err := NewCatalog(rules)
	if err != nil {
		panic(err)
	}
	return c
}

// validate enforces the structural invariants of the transition graph.
func (c *Catalog) validate() error {
	for status, def := range c.rules {
		for _, t := range def.Transitions {
			if _, ok := c.rules[t.To]; !ok {
				return fmt.Errorf("%w: %s -> %s", ErrUnknownTarget, status, t.To)
			}
			if len(t.Guard.Roles) == 0 {
				return fmt.Errorf("%w: %s -> %s", ErrUnreachableTransition, status, t.To)
			}
			for _, r := range t.Guard.Roles {
				if r == bill.RolePublic {
					return fmt.Errorf("%w: %s -> %s", ErrPublicGuard, status, t.To)
				}
			}
		}
	}

	if def, ok := c.rules[bill.StatusImplementation]; ok && len(def.Transitions) > 0 {
		return fmt.Errorf("%w: %s must be terminal", ErrInvalidCatalog, bill.StatusImplementation)
	}

	for _, deadEnd := range []bill.Status{bill.StatusLapsed, bill.StatusWithdrawn} {
		def, ok := c.rules[deadEnd]
		if !ok {
			continue
		}
		if len(def.Transitions) != 1 || def.Transitions[0].To != bill.StatusDraft {
			return fmt.Errorf("%w: %s must have exactly one re-introduction transition to %s",
				ErrInvalidCatalog, deadEnd, bill.StatusDraft)
		}
	}

	return nil
}

// Definition returns the definition for a status. The second return is
// false for statuses not in the catalog.
func (c *Catalog) Definition(status bill.Status) (Definition, bool) {
	def, ok := c.rules[status]
	return def, ok
}

// Statuses returns every status in the catalog, in canonical order where
// defined, followed by any extras.
func (c *Catalog) Statuses() []bill.Status {
	out := make([]bill.Status, 0, len(c.rules))
	seen := make(map[bill.Status]bool, len(c.rules))
	for _, s := range bill.AllStatuses() {
		if _, ok := c.rules[s]; ok {
			out = append(out, s)
			seen[s] = true
		}
	}
	for s := range c.rules {
		if !seen[s] {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of statuses in the catalog.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// defaultRules is the full Nepal federal parliament bill state machine.
var defaultRules = Rules{
	bill.StatusDraft: {
		Label:       "Draft",
		Description: "Bill is being drafted by the sponsoring ministry or member.",
		Transitions: []Transition{
			{
				To:          bill.StatusLawMinistryReview,
				Label:       "Submit for Law Ministry Review",
				Guard:       Guard{Roles: []bill.Role{bill.RoleMinistry}},
				SideEffects: []SideEffect{EffectLogTransition, EffectNotifyLawMinistry},
			},
			{
				To:          bill.StatusWithdrawn,
				Label:       "Withdraw Draft",
				Guard:       Guard{Roles: []bill.Role{bill.RoleMinistry, bill.RoleMP}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
	},

	bill.StatusLawMinistryReview: {
		Label:       "Law Ministry Review",
		Description: "Bill is under review by the Law Ministry for legal compliance.",
		Transitions: []Transition{
			{
				To:    bill.StatusCabinetApproved,
				Label: "Approve for Cabinet",
				Guard: Guard{
					Roles:      []bill.Role{bill.RoleMinistry},
					Categories: []bill.Category{bill.CategoryGovernment, bill.CategoryMoney},
				},
				SideEffects: []SideEffect{EffectLogTransition},
			},
			{
				To:    bill.StatusRegistered,
				Label: "Register Directly (Private)",
				Guard: Guard{
					Roles:      []bill.Role{bill.RoleSecretariat},
					Categories: []bill.Category{bill.CategoryPrivate},
				},
				SideEffects: []SideEffect{EffectLogTransition, EffectCreateNoticeDeadline},
			},
			{
				To:          bill.StatusDraft,
				Label:       "Return to Draft",
				Guard:       Guard{Roles: []bill.Role{bill.RoleMinistry}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
	},

	bill.StatusCabinetApproved: {
		Label:       "Cabinet Approved",
		Description: "Bill has been approved by the cabinet and is ready for registration.",
		Transitions: []Transition{
			{
				To:          bill.StatusRegistered,
				Label:       "Register Bill",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSecretariat}},
				SideEffects: []SideEffect{EffectLogTransition, EffectAssignBillNumber, EffectCreateNoticeDeadline},
			},
		},
	},

	bill.StatusRegistered: {
		Label:       "Registered",
		Description: "Bill has been officially registered by the Secretariat.",
		Transitions: []Transition{
			{
				To:    bill.StatusFirstReading,
				Label: "Schedule First Reading",
				Guard: Guard{
					Roles:                  []bill.Role{bill.RoleSecretariat},
					RequiresDeadlineExpiry: true,
				},
				SideEffects: []SideEffect{EffectLogTransition, EffectNotifyAllMembers},
			},
			{
				To:          bill.StatusFastTrack,
				Label:       "Mark as Fast Track",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
		Deadlines: []DeadlineSpec{
			{
				Kind:       deadline.KindGovernmentBillNotice,
				Categories: []bill.Category{bill.CategoryGovernment, bill.CategoryMoney},
			},
			{
				Kind:       deadline.KindPrivateBillNotice,
				Categories: []bill.Category{bill.CategoryPrivate},
			},
		},
	},

	bill.StatusFirstReading: {
		Label:       "First Reading",
		Description: "Bill is introduced and read for the first time in the house.",
		Transitions: []Transition{
			{
				To:          bill.StatusGeneralDiscussion,
				Label:       "Move to General Discussion",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker, bill.RoleSecretariat}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
			{
				To:          bill.StatusCommitteeReview,
				Label:       "Refer to Committee",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition, EffectNotifyCommittee},
			},
		},
	},

	bill.StatusGeneralDiscussion: {
		Label:       "General Discussion",
		Description: "Bill is under general discussion in the house.",
		Transitions: []Transition{
			{
				To:          bill.StatusAmendmentWindow,
				Label:       "Open Amendment Window",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker, bill.RoleSecretariat}},
				SideEffects: []SideEffect{EffectLogTransition, EffectCreateAmendmentDeadline},
			},
			{
				To:          bill.StatusCommitteeReview,
				Label:       "Refer to Committee",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition, EffectNotifyCommittee},
			},
		},
	},

	bill.StatusAmendmentWindow: {
		Label:       "Amendment Window",
		Description: "Members can propose amendments to the bill within the specified timeframe.",
		Transitions: []Transition{
			{
				To:          bill.StatusCommitteeReview,
				Label:       "Send to Committee Review",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker, bill.RoleSecretariat}},
				SideEffects: []SideEffect{EffectLogTransition, EffectNotifyCommittee},
			},
			{
				To:    bill.StatusClauseVoting,
				Label: "Move to Clause Voting",
				Guard: Guard{
					Roles:                  []bill.Role{bill.RoleSpeaker},
					RequiresDeadlineExpiry: true,
				},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
		Deadlines: []DeadlineSpec{
			{Kind: deadline.KindAmendmentWindow},
		},
	},

	bill.StatusCommitteeReview: {
		Label:       "Committee Review",
		Description: "Bill is being reviewed by the assigned parliamentary committee.",
		Transitions: []Transition{
			{
				To:    bill.StatusClauseVoting,
				Label: "Committee Report Accepted - Move to Voting",
				Guard: Guard{
					Roles:          []bill.Role{bill.RoleSpeaker, bill.RoleSecretariat},
					RequiresQuorum: true,
				},
				SideEffects: []SideEffect{EffectLogTransition, EffectNotifyAllMembers},
			},
			{
				To:          bill.StatusGeneralDiscussion,
				Label:       "Return to General Discussion",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
	},

	bill.StatusClauseVoting: {
		Label:       "Clause Voting",
		Description: "Clause-by-clause voting in the house.",
		Transitions: []Transition{
			{
				To:    bill.StatusFirstHousePassed,
				Label: "Bill Passed in First House",
				Guard: Guard{
					Roles:          []bill.Role{bill.RoleSpeaker},
					RequiresQuorum: true,
				},
				SideEffects: []SideEffect{EffectLogTransition, EffectNotifySecondHouse},
			},
			{
				To:          bill.StatusLapsed,
				Label:       "Bill Rejected",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
	},

	bill.StatusFirstHousePassed: {
		Label:       "First House Passed",
		Description: "Bill has passed in the first house and is being sent to the second house.",
		Transitions: []Transition{
			{
				To:          bill.StatusSecondHouse,
				Label:       "Send to Second House",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSecretariat}},
				SideEffects: []SideEffect{EffectLogTransition, EffectCreateSecondHouseDeadline},
			},
		},
	},

	bill.StatusSecondHouse: {
		Label:       "Second House Processing",
		Description: "Bill is being processed in the second house.",
		Transitions: []Transition{
			{
				To:          bill.StatusSpeakerCert,
				Label:       "Second House Passed (No Amendments)",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
			{
				To:          bill.StatusJointSitting,
				Label:       "Disagreement - Initiate Joint Sitting",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition, EffectNotifyJointSitting},
			},
			{
				To:          bill.StatusLapsed,
				Label:       "Bill Rejected by Second House",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
		Deadlines: []DeadlineSpec{
			{
				Kind:       deadline.KindNAMoneyBillReturn,
				Categories: []bill.Category{bill.CategoryMoney},
			},
			{
				Kind: deadline.KindNAOtherBillReturn,
				Categories: []bill.Category{
					bill.CategoryGovernment,
					bill.CategoryPrivate,
					bill.CategoryConstitutional,
					bill.CategoryOrdinance,
				},
			},
		},
	},

	bill.StatusJointSitting: {
		Label:       "Joint Sitting",
		Description: "Joint sitting of both houses to resolve disagreement. HoR:NA ratio 5:1.",
		Transitions: []Transition{
			{
				To:    bill.StatusSpeakerCert,
				Label: "Joint Sitting Resolved - Bill Passed",
				Guard: Guard{
					Roles:          []bill.Role{bill.RoleSpeaker},
					RequiresQuorum: true,
				},
				SideEffects: []SideEffect{EffectLogTransition},
			},
			{
				To:          bill.StatusLapsed,
				Label:       "Joint Sitting Rejected",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
	},

	bill.StatusSpeakerCert: {
		Label:       "Speaker Certification",
		Description: "Speaker certifies the bill before sending to President.",
		Transitions: []Transition{
			{
				To:          bill.StatusPresidentialRev,
				Label:       "Certify and Send to President",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition, EffectCreatePresidentialDeadline, EffectNotifyPresident},
			},
		},
	},

	bill.StatusPresidentialRev: {
		Label:       "Presidential Review",
		Description: "Bill is under review by the President for assent.",
		Transitions: []Transition{
			{
				To:          bill.StatusAssented,
				Label:       "Give Assent",
				Guard:       Guard{Roles: []bill.Role{bill.RolePresident}},
				SideEffects: []SideEffect{EffectLogTransition, EffectNotifyAll},
			},
			{
				To:    bill.StatusGeneralDiscussion,
				Label: "Return Bill (Non-Money)",
				Guard: Guard{
					Roles: []bill.Role{bill.RolePresident},
					Categories: []bill.Category{
						bill.CategoryGovernment,
						bill.CategoryPrivate,
						bill.CategoryConstitutional,
						bill.CategoryOrdinance,
					},
					Check: CheckNoDoubleReturn,
				},
				SideEffects: []SideEffect{EffectLogTransition, EffectIncrementReturnCount},
			},
		},
		Deadlines: []DeadlineSpec{
			{
				Kind:             deadline.KindPresidentialAssent,
				AutoTransitionTo: bill.StatusAssented,
			},
		},
	},

	bill.StatusAssented: {
		Label:       "Assented",
		Description: "Bill has received Presidential assent and is now law.",
		Transitions: []Transition{
			{
				To:          bill.StatusGazettePublished,
				Label:       "Publish in Gazette",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSecretariat}},
				SideEffects: []SideEffect{EffectLogTransition, EffectCreateGazetteEntry},
			},
		},
	},

	bill.StatusGazettePublished: {
		Label:       "Gazette Published",
		Description: "Bill has been published in the Nepal Gazette.",
		Transitions: []Transition{
			{
				To:          bill.StatusImplementation,
				Label:       "Begin Implementation Monitoring",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSecretariat, bill.RoleAdmin}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
	},

	bill.StatusImplementation: {
		Label:       "Implementation Monitoring",
		Description: "Act is being monitored for implementation compliance.",
	},

	bill.StatusLapsed: {
		Label:       "Lapsed",
		Description: "Bill has lapsed due to rejection, session end, or deadline expiry.",
		Transitions: []Transition{
			{
				To:          bill.StatusDraft,
				Label:       "Re-introduce as New Bill",
				Guard:       Guard{Roles: []bill.Role{bill.RoleMinistry, bill.RoleMP}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
	},

	bill.StatusWithdrawn: {
		Label:       "Withdrawn",
		Description: "Bill has been voluntarily withdrawn by the sponsor.",
		Transitions: []Transition{
			{
				To:          bill.StatusDraft,
				Label:       "Re-submit as Draft",
				Guard:       Guard{Roles: []bill.Role{bill.RoleMinistry, bill.RoleMP}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
	},

	bill.StatusFastTrack: {
		Label:       "Fast Track",
		Description: "Bill is on an expedited track with reduced timelines.",
		Transitions: []Transition{
			{
				To:          bill.StatusGeneralDiscussion,
				Label:       "Move to General Discussion",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
			{
				To:          bill.StatusCommitteeReview,
				Label:       "Refer to Committee",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition, EffectNotifyCommittee},
			},
			{
				To:          bill.StatusClauseVoting,
				Label:       "Move Directly to Voting",
				Guard:       Guard{Roles: []bill.Role{bill.RoleSpeaker}},
				SideEffects: []SideEffect{EffectLogTransition},
			},
		},
	},
}

// DefaultCatalog returns the canonical bill state catalog. The returned
// catalog is shared; callers must treat it as read-only.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

var defaultCatalog = MustNewCatalog(defaultRules)
