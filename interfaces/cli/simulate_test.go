package cli

import (
	"strings"
	"testing"
)

func TestSimulateCmdHappyPath(t *testing.T) {
	stdout, _, err := runApp(t, "simulate",
		"--path", "LAW_MINISTRY_REVIEW,CABINET_APPROVED")
	if err != nil {
		t.Fatalf("simulate error = %v", err)
	}
	if !strings.Contains(stdout, "✓ CABINET_APPROVED") {
		t.Errorf("output missing final hop: %q", stdout)
	}
	if !strings.Contains(stdout, "Final status: CABINET_APPROVED (2 transitions recorded)") {
		t.Errorf("output missing summary: %q", stdout)
	}
}

func TestSimulateCmdGuardRejection(t *testing.T) {
	// Registration is the secretariat's move; the ministry stops before it.
	stdout, _, err := runApp(t, "simulate",
		"--path", "LAW_MINISTRY_REVIEW,CABINET_APPROVED,REGISTERED")
	if err == nil {
		t.Fatal("simulate error = nil, want guard rejection")
	}
	if !strings.Contains(stdout, "✗ REGISTERED") {
		t.Errorf("output missing rejected hop: %q", stdout)
	}
}

func TestSimulateCmdCategoryRestriction(t *testing.T) {
	// Only the secretariat registers private bills directly.
	_, _, err := runApp(t, "simulate",
		"--category", "PRIVATE",
		"--path", "LAW_MINISTRY_REVIEW,CABINET_APPROVED")
	if err == nil {
		t.Fatal("simulate error = nil, want category guard rejection")
	}
}

func TestSimulateCmdUnknownStatus(t *testing.T) {
	if _, _, err := runApp(t, "simulate", "--path", "NOT_A_STATUS"); err == nil {
		t.Fatal("simulate error = nil, want unknown status rejection")
	}
}
