package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	api "github.com/sansadwatch/billflow/interfaces/api"
)

// simulateOptions holds options for the simulate command.
type simulateOptions struct {
	title    string
	category string
	role     string
	path     []string
}

// newSimulateCmd creates the simulate command.
func (a *App) newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Walk a bill through a sequence of statuses",
		Long: `Walk an ephemeral bill through a comma-separated sequence of
statuses using the statechart interpreter. Each hop runs the same
guards the runtime enforces, so the simulation shows exactly where a
path would be rejected and for whom.

Nothing is persisted; the bill exists only for the duration of the
command.

Examples:
  # Can a ministry take a government bill to cabinet approval?
  billflow simulate --path LAW_MINISTRY_REVIEW,CABINET_APPROVED

  # Where does the ministry get stopped? (registration is the
  # secretariat's move)
  billflow simulate --path LAW_MINISTRY_REVIEW,CABINET_APPROVED,REGISTERED`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.simulate(opts)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "Simulated Bill", "Bill title")
	cmd.Flags().StringVar(&opts.category, "category", string(api.CategoryGovernment), "Bill category")
	cmd.Flags().StringVar(&opts.role, "role", string(api.RoleMinistry), "Acting role")
	cmd.Flags().StringSliceVar(&opts.path, "path", nil, "Comma-separated target statuses (required)")

	_ = cmd.MarkFlagRequired("path")

	return cmd
}

// simulate drives an ephemeral bill along the requested path.
func (a *App) simulate(opts *simulateOptions) error {
	b, err := api.NewBill(opts.title, api.Category(strings.ToUpper(opts.category)), api.HouseOfRepresentatives)
	if err != nil {
		return err
	}

	role := api.Role(strings.ToUpper(opts.role))
	interp, err := api.NewBillInterpreter(b, role)
	if err != nil {
		return err
	}
	defer interp.Stop()

	fmt.Fprintf(a.stdout, "Simulating %s bill as %s\n", b.Category, role)
	fmt.Fprintf(a.stdout, "%s\n", strings.Repeat("─", 60))
	fmt.Fprintf(a.stdout, "  start: %s\n", b.Status)

	for _, raw := range opts.path {
		target := api.Status(strings.ToUpper(strings.TrimSpace(raw)))
		if err := interp.Transition(target, "simulation", time.Now().UTC()); err != nil {
			fmt.Fprintf(a.stdout, "  ✗ %s\n", target)
			return err
		}
		fmt.Fprintf(a.stdout, "  ✓ %s\n", target)
	}

	fmt.Fprintf(a.stdout, "%s\n", strings.Repeat("─", 60))
	fmt.Fprintf(a.stdout, "Final status: %s (%d transitions recorded)\n", interp.State(), len(b.History))
	if interp.IsTerminal() {
		fmt.Fprintf(a.stdout, "The bill has reached a terminal status.\n")
	}
	return nil
}
