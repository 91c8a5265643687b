package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	api "github.com/sansadwatch/billflow/interfaces/api"
)

// newRulesCmd creates the rules command.
func (a *App) newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the constitutional deadline reference table",
		Long: `Show the reference table of constitutional timers that bound each
stage of a bill's passage, with the duration and the clause each one
enforces.`,
		Run: func(cmd *cobra.Command, args []string) {
			a.printRules()
		},
	}
}

// printRules renders the timer reference table.
func (a *App) printRules() {
	rules := api.DeadlineRules()

	nameWidth := len("Rule")
	durationWidth := len("Duration")
	for _, r := range rules {
		if len(r.Name) > nameWidth {
			nameWidth = len(r.Name)
		}
		if len(r.Duration) > durationWidth {
			durationWidth = len(r.Duration)
		}
	}

	fmt.Fprintf(a.stdout, "Constitutional Deadlines\n")
	fmt.Fprintf(a.stdout, "%s\n", strings.Repeat("═", 72))
	fmt.Fprintf(a.stdout, "%-*s  %-*s  %s\n", nameWidth, "Rule", durationWidth, "Duration", "Description")
	fmt.Fprintf(a.stdout, "%s\n", strings.Repeat("─", 72))
	for _, r := range rules {
		fmt.Fprintf(a.stdout, "%-*s  %-*s  %s\n", nameWidth, r.Name, durationWidth, r.Duration, r.Description)
	}
}
