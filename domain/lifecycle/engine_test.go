package lifecycle

import (
	"reflect"
	"testing"
	"time"

	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
)

func TestEngine_AvailableTransitions_FiltersByRole(t *testing.T) {
	e := NewDefaultEngine()

	tests := []struct {
		name     string
		status   bill.Status
		role     bill.Role
		category bill.Category
		targets  []bill.Status
	}{
		{
			name:     "ministry can submit or withdraw a draft",
			status:   bill.StatusDraft,
			role:     bill.RoleMinistry,
			category: bill.CategoryGovernment,
			targets:  []bill.Status{bill.StatusLawMinistryReview, bill.StatusWithdrawn},
		},
		{
			name:     "MP can only withdraw a draft",
			status:   bill.StatusDraft,
			role:     bill.RoleMP,
			category: bill.CategoryGovernment,
			targets:  []bill.Status{bill.StatusWithdrawn},
		},
		{
			name:     "public gets nothing",
			status:   bill.StatusDraft,
			role:     bill.RolePublic,
			category: bill.CategoryGovernment,
			targets:  nil,
		},
		{
			name:     "speaker fast-tracks a registered bill",
			status:   bill.StatusRegistered,
			role:     bill.RoleSpeaker,
			category: bill.CategoryGovernment,
			targets:  []bill.Status{bill.StatusFastTrack},
		},
		{
			name:     "unknown status yields empty list",
			status:   bill.Status("NOT_A_STATUS"),
			role:     bill.RoleAdmin,
			category: bill.CategoryGovernment,
			targets:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.AvailableTransitions(tt.status, tt.role, tt.category)
			var targets []bill.Status
			for _, tr := range got {
				targets = append(targets, tr.To)
			}
			if !reflect.DeepEqual(targets, tt.targets) {
				t.Errorf("AvailableTransitions(%s, %s, %s) targets = %v, want %v",
					tt.status, tt.role, tt.category, targets, tt.targets)
			}
		})
	}
}

func TestEngine_PresidentialReview_MoneyBillExemption(t *testing.T) {
	e := NewDefaultEngine()

	money := e.AvailableTransitions(bill.StatusPresidentialRev, bill.RolePresident, bill.CategoryMoney)
	if len(money) != 1 || money[0].To != bill.StatusAssented {
		t.Fatalf("money bill: got %d transitions, want only assent; got %+v", len(money), money)
	}

	gov := e.AvailableTransitions(bill.StatusPresidentialRev, bill.RolePresident, bill.CategoryGovernment)
	if len(gov) != 2 {
		t.Fatalf("government bill: got %d transitions, want 2 (assent and return)", len(gov))
	}
	ret := gov[1]
	if ret.To != bill.StatusGeneralDiscussion {
		t.Errorf("return transition targets %s, want %s", ret.To, bill.StatusGeneralDiscussion)
	}
	if ret.Guard.Check != CheckNoDoubleReturn {
		t.Errorf("return transition check = %q, want %q", ret.Guard.Check, CheckNoDoubleReturn)
	}
}

func TestEngine_CanTransition_RoundTrip(t *testing.T) {
	e := NewDefaultEngine()

	roles := bill.AllRoles()
	categories := bill.AllCategories()

	for _, status := range e.Catalog().Statuses() {
		def, _ := e.StateDefinition(status)
		for _, role := range roles {
			for _, category := range categories {
				available := e.AvailableTransitions(status, role, category)
				inList := make(map[bill.Status]bool, len(available))
				for _, tr := range available {
					inList[tr.To] = true
				}
				for _, tr := range def.Transitions {
					got := e.CanTransition(status, tr.To, role, category)
					if got != inList[tr.To] {
						t.Errorf("CanTransition(%s, %s, %s, %s) = %v, inconsistent with AvailableTransitions",
							status, tr.To, role, category, got)
					}
				}
			}
		}
	}
}

func TestEngine_AvailableTransitions_SubsetOfDefinition(t *testing.T) {
	e := NewDefaultEngine()

	for _, status := range e.Catalog().Statuses() {
		def, _ := e.StateDefinition(status)
		declared := make(map[bill.Status]bool, len(def.Transitions))
		for _, tr := range def.Transitions {
			declared[tr.To] = true
		}
		for _, role := range bill.AllRoles() {
			for _, category := range bill.AllCategories() {
				for _, tr := range e.AvailableTransitions(status, role, category) {
					if !declared[tr.To] {
						t.Errorf("AvailableTransitions(%s, %s, %s) returned undeclared target %s",
							status, role, category, tr.To)
					}
				}
			}
		}
	}
}

func TestEngine_AvailableTransitions_Idempotent(t *testing.T) {
	e := NewDefaultEngine()

	first := e.AvailableTransitions(bill.StatusPresidentialRev, bill.RolePresident, bill.CategoryGovernment)
	second := e.AvailableTransitions(bill.StatusPresidentialRev, bill.RolePresident, bill.CategoryGovernment)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls returned different results:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestEngine_Transition_ExposesGuardAndEffects(t *testing.T) {
	e := NewDefaultEngine()

	tr, ok := e.Transition(bill.StatusRegistered, bill.StatusFirstReading, bill.RoleSecretariat, bill.CategoryGovernment)
	if !ok {
		t.Fatal("expected first-reading transition to be available")
	}
	if !tr.Guard.RequiresDeadlineExpiry {
		t.Error("first-reading guard should require the notice deadline to have expired")
	}
	if !tr.Guard.IsDynamic() {
		t.Error("guard with deadline-expiry requirement should report IsDynamic")
	}

	if _, ok := e.Transition(bill.StatusRegistered, bill.StatusFirstReading, bill.RoleMP, bill.CategoryGovernment); ok {
		t.Error("MP should not see the first-reading transition")
	}
}

func TestEngine_DeadlinesOnEntry(t *testing.T) {
	e := NewDefaultEngine()
	at := time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   bill.Status
		category bill.Category
		kinds    []deadline.Kind
		days     []int
	}{
		{
			name:     "registered private bill gets the 4-day notice",
			status:   bill.StatusRegistered,
			category: bill.CategoryPrivate,
			kinds:    []deadline.Kind{deadline.KindPrivateBillNotice},
			days:     []int{4},
		},
		{
			name:     "registered government bill gets the 2-day notice",
			status:   bill.StatusRegistered,
			category: bill.CategoryGovernment,
			kinds:    []deadline.Kind{deadline.KindGovernmentBillNotice},
			days:     []int{2},
		},
		{
			name:     "second house money bill gets the 15-day return window",
			status:   bill.StatusSecondHouse,
			category: bill.CategoryMoney,
			kinds:    []deadline.Kind{deadline.KindNAMoneyBillReturn},
			days:     []int{15},
		},
		{
			name:     "second house government bill gets the 2-month return window",
			status:   bill.StatusSecondHouse,
			category: bill.CategoryGovernment,
			kinds:    []deadline.Kind{deadline.KindNAOtherBillReturn},
			days:     []int{60},
		},
		{
			name:     "drafting creates nothing",
			status:   bill.StatusDraft,
			category: bill.CategoryGovernment,
			kinds:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.DeadlinesOnEntry(tt.status, tt.category, at)
			if len(got) != len(tt.kinds) {
				t.Fatalf("got %d deadlines, want %d", len(got), len(tt.kinds))
			}
			for i, inst := range got {
				if inst.Kind != tt.kinds[i] {
					t.Errorf("deadline[%d].Kind = %s, want %s", i, inst.Kind, tt.kinds[i])
				}
				if inst.DurationDays != tt.days[i] {
					t.Errorf("deadline[%d].DurationDays = %d, want %d", i, inst.DurationDays, tt.days[i])
				}
				if want := at.AddDate(0, 0, tt.days[i]); !inst.ExpiresAt.Equal(want) {
					t.Errorf("deadline[%d].ExpiresAt = %v, want %v", i, inst.ExpiresAt, want)
				}
			}
		})
	}
}

func TestEngine_DeadlinesOnEntry_AutoAction(t *testing.T) {
	e := NewDefaultEngine()
	at := time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC)

	got := e.DeadlinesOnEntry(bill.StatusPresidentialRev, bill.CategoryGovernment, at)
	if len(got) != 1 {
		t.Fatalf("got %d deadlines, want 1", len(got))
	}
	if got[0].Kind != deadline.KindPresidentialAssent {
		t.Errorf("Kind = %s, want %s", got[0].Kind, deadline.KindPresidentialAssent)
	}
	if got[0].AutoAction != bill.StatusAssented {
		t.Errorf("AutoAction = %s, want %s", got[0].AutoAction, bill.StatusAssented)
	}
}
