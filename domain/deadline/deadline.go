// Package deadline computes constitutional and procedural timers for
// bills. All arithmetic is plain wall-clock day math with no calendar or
// business-day adjustment, and every check takes the observation instant
// as an explicit parameter so a single request sees one consistent clock.
package deadline

import (
	"time"

	"github.com/sansadwatch/billflow/domain/bill"
)

// Kind identifies a category of constitutional or procedural timer.
type Kind string

// Known deadline kinds.
const (
	KindGovernmentBillNotice Kind = "GOVERNMENT_BILL_NOTICE"
	KindPrivateBillNotice    Kind = "PRIVATE_BILL_NOTICE"
	KindAmendmentWindow      Kind = "AMENDMENT_WINDOW"
	KindNAMoneyBillReturn    Kind = "NA_MONEY_BILL_RETURN"
	KindNAOtherBillReturn    Kind = "NA_OTHER_BILL_RETURN"
	KindPresidentialAssent   Kind = "PRESIDENTIAL_ASSENT"
	KindPresidentialReturn   Kind = "PRESIDENTIAL_RETURN_WINDOW"
)

// DefaultDurationDays applies to deadline kinds absent from the duration
// table. Unknown kinds can arrive from forward-compatible data and are not
// an error.
const DefaultDurationDays = 7

// durations is the single source for kind-to-days lookups. Rules() derives
// its reference table from the same map so the two can never drift.
var durations = map[Kind]int{
	KindGovernmentBillNotice: 2,
	KindPrivateBillNotice:    4,
	KindAmendmentWindow:      3,
	KindNAMoneyBillReturn:    15,
	KindNAOtherBillReturn:    60,
	KindPresidentialAssent:   15,
	KindPresidentialReturn:   50,
}

// DurationDays returns the configured duration for the kind, or the
// default for unrecognized kinds.
func (k Kind) DurationDays() int {
	if d, ok := durations[k]; ok {
		return d
	}
	return DefaultDurationDays
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Instance is a concrete time-bound obligation created when a bill enters
// a status that carries a deadline rule. Completion tracking belongs to
// the caller; this package only computes.
type Instance struct {
	Kind         Kind        `json:"kind"`
	StartsAt     time.Time   `json:"starts_at"`
	ExpiresAt    time.Time   `json:"expires_at"`
	DurationDays int         `json:"duration_days"`
	AutoAction   bill.Status `json:"auto_action,omitempty"`
}

// New creates a deadline instance of the given kind starting at start.
// Expiry is start plus the kind's configured duration in calendar days.
// autoAction, if non-empty, names the status the bill should automatically
// move to when the deadline lapses.
func New(kind Kind, start time.Time, autoAction bill.Status) Instance {
	days := kind.DurationDays()
	return Instance{
		Kind:         kind,
		StartsAt:     start,
		ExpiresAt:    start.AddDate(0, 0, days),
		DurationDays: days,
		AutoAction:   autoAction,
	}
}

// Check is a recomputable view of a deadline at one observation instant.
// Remaining fields are clamped to zero once expired. PercentElapsed is a
// display-only heuristic for progress bars and must not drive any expiry
// or urgency decision.
type Check struct {
	Expired          bool    `json:"is_expired"`
	RemainingMs      int64   `json:"remaining_ms"`
	RemainingDays    int     `json:"remaining_days"`
	RemainingHours   int     `json:"remaining_hours"`
	RemainingMinutes int     `json:"remaining_minutes"`
	PercentElapsed   float64 `json:"percent_elapsed"`
}

// percentLookback is the fixed window PercentElapsed is measured against,
// regardless of the deadline's configured duration. The dashboard has
// always rendered progress bars this way; changing it would visibly alter
// every countdown bar, so the quirk is kept.
// TODO: switch to the instance's own duration once the dashboard's bar
// component is updated to accept it.
const percentLookback = 30 * 24 * time.Hour

// CheckAt evaluates the deadline expiring at expiry as observed at now.
// Exactly at expiry the deadline counts as expired.
func CheckAt(expiry, now time.Time) Check {
	remaining := expiry.Sub(now)
	expired := remaining <= 0

	remainingMs := remaining.Milliseconds()
	if remainingMs < 0 {
		remainingMs = 0
	}

	const (
		msPerDay    = 24 * 60 * 60 * 1000
		msPerHour   = 60 * 60 * 1000
		msPerMinute = 60 * 1000
	)

	days := remainingMs / msPerDay
	hours := (remainingMs % msPerDay) / msPerHour
	minutes := (remainingMs % msPerHour) / msPerMinute

	percent := 100.0
	if !expired {
		windowStart := expiry.Add(-percentLookback)
		percent = float64(now.Sub(windowStart)) / float64(percentLookback) * 100
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
	}

	return Check{
		Expired:          expired,
		RemainingMs:      remainingMs,
		RemainingDays:    int(days),
		RemainingHours:   int(hours),
		RemainingMinutes: int(minutes),
		PercentElapsed:   percent,
	}
}

// CheckAt evaluates the instance at the given observation instant.
func (i Instance) CheckAt(now time.Time) Check {
	return CheckAt(i.ExpiresAt, now)
}

// Urgency classifies how close a deadline is to lapsing. Display only.
type Urgency string

// Urgency tiers.
const (
	UrgencyNormal   Urgency = "normal"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
	UrgencyExpired  Urgency = "expired"
)

// UrgencyAt returns the urgency tier for a deadline expiring at expiry as
// observed at now. Critical is checked before the coarser one-day warning
// so that "0 days, 3 hours left" classifies as critical.
func UrgencyAt(expiry, now time.Time) Urgency {
	check := CheckAt(expiry, now)

	switch {
	case check.Expired:
		return UrgencyExpired
	case check.RemainingDays == 0 && check.RemainingHours < 6:
		return UrgencyCritical
	case check.RemainingDays <= 1:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}
