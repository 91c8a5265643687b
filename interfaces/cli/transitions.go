package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	api "github.com/sansadwatch/billflow/interfaces/api"
)

// transitionsOptions holds options for the transitions command.
type transitionsOptions struct {
	status   string
	role     string
	category string
}

// newTransitionsCmd creates the transitions command.
func (a *App) newTransitionsCmd() *cobra.Command {
	opts := &transitionsOptions{}

	cmd := &cobra.Command{
		Use:   "transitions",
		Short: "List available transitions for a status, role, and category",
		Long: `List the transitions the catalog allows from a given status for a
given actor role and bill category.

Examples:
  # What can a ministry do with a draft government bill?
  billflow transitions --status DRAFT --role MINISTRY

  # What can the secretariat do with a registered private bill?
  billflow transitions --status REGISTERED --role SECRETARIAT --category PRIVATE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listTransitions(opts)
		},
	}

	cmd.Flags().StringVar(&opts.status, "status", "", "Bill status (required)")
	cmd.Flags().StringVar(&opts.role, "role", "", "Actor role (required)")
	cmd.Flags().StringVar(&opts.category, "category", string(api.CategoryGovernment), "Bill category")

	_ = cmd.MarkFlagRequired("status")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

// listTransitions prints the transitions available under the catalog.
func (a *App) listTransitions(opts *transitionsOptions) error {
	engine := api.NewDefaultEngine()

	status := api.Status(strings.ToUpper(opts.status))
	if _, ok := engine.StateDefinition(status); !ok {
		return fmt.Errorf("unknown status %q", opts.status)
	}
	role := api.Role(strings.ToUpper(opts.role))
	category := api.Category(strings.ToUpper(opts.category))

	transitions := engine.AvailableTransitions(status, role, category)

	fmt.Fprintf(a.stdout, "Transitions from %s (role=%s, category=%s)\n", status, role, category)
	fmt.Fprintf(a.stdout, "%s\n", strings.Repeat("─", 60))
	if len(transitions) == 0 {
		fmt.Fprintf(a.stdout, "  none\n")
		return nil
	}

	for _, tr := range transitions {
		fmt.Fprintf(a.stdout, "  → %-28s %s\n", tr.To, tr.Label)
		if tr.Guard.RequiresQuorum {
			fmt.Fprintf(a.stdout, "      requires quorum\n")
		}
		if tr.Guard.RequiresDeadlineExpiry {
			fmt.Fprintf(a.stdout, "      requires deadline expiry\n")
		}
	}
	return nil
}
