package deadline

import (
	"fmt"
	"time"
)

// FormatRemaining renders the remaining time until expiry as the countdown
// badge text the dashboard shows. Minutes are always shown when nothing
// larger remains, including "0m remaining".
func FormatRemaining(expiry, now time.Time) string {
	check := CheckAt(expiry, now)

	switch {
	case check.Expired:
		return "Expired"
	case check.RemainingDays > 0:
		return fmt.Sprintf("%dd %dh remaining", check.RemainingDays, check.RemainingHours)
	case check.RemainingHours > 0:
		return fmt.Sprintf("%dh %dm remaining", check.RemainingHours, check.RemainingMinutes)
	default:
		return fmt.Sprintf("%dm remaining", check.RemainingMinutes)
	}
}

// ParseTime parses a timestamp from stored deadline data. An unparseable
// value surfaces as ErrInvalidTimestamp, never as an expired or unexpired
// deadline.
func ParseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrInvalidTimestamp
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
	}
	return t, nil
}

// Rule documents one constitutional timer for the user-facing help screen.
type Rule struct {
	Name        string `json:"rule"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type ruleDoc struct {
	kind        Kind
	name        string
	duration    string
	description string
}

// ruleDocs carries the prose; durations in the rendered table come from
// the shared duration map.
var ruleDocs = []ruleDoc{
	{KindGovernmentBillNotice, "Government Bill Notice", "2 days", "Notice period before first reading of a government bill"},
	{KindPrivateBillNotice, "Private Bill Notice", "4 days", "Notice period before first reading of a private member bill"},
	{KindAmendmentWindow, "Amendment Window", "72 hours", "Duration for members to propose amendments"},
	{KindNAMoneyBillReturn, "NA Money Bill Return", "15 days", "National Assembly must return money bills within 15 days"},
	{KindNAOtherBillReturn, "NA Other Bill Return", "2 months", "National Assembly must return non-money bills within 2 months"},
	{KindPresidentialAssent, "Presidential Assent", "15 days", "President must act on a bill within 15 days"},
	{KindPresidentialReturn, "Presidential Return Window", "50 days", "Window for returning a non-money bill to the house"},
}

// Rules returns the ordered reference table of constitutional timers.
func Rules() []Rule {
	rules := make([]Rule, 0, len(ruleDocs))
	for _, d := range ruleDocs {
		rules = append(rules, Rule{
			Name:        d.name,
			Duration:    d.duration,
			Description: d.description,
		})
	}
	return rules
}

// RuleDurationDays returns the configured duration behind each rule in the
// same order as Rules. Kept alongside Rules so tests can confirm the
// rendered table matches the duration map.
func RuleDurationDays() []int {
	days := make([]int, 0, len(ruleDocs))
	for _, d := range ruleDocs {
		days = append(days, d.kind.DurationDays())
	}
	return days
}
