package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	api "github.com/sansadwatch/billflow/interfaces/api"
)

// inspectOptions holds options for the inspect command.
type inspectOptions struct {
	status     string
	outputJSON bool
}

// newInspectCmd creates the inspect command.
func (a *App) newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect the transition catalog",
		Long: `Inspect the transition catalog: every status with its outgoing
transitions, guards, side effects, and the deadlines armed on entry.

Examples:
  # Dump the full catalog
  billflow inspect

  # Inspect a single status
  billflow inspect --status PRESIDENTIAL_REVIEW

  # Output as JSON
  billflow inspect --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspectCatalog(opts)
		},
	}

	cmd.Flags().StringVar(&opts.status, "status", "", "Restrict to a single status")
	cmd.Flags().BoolVar(&opts.outputJSON, "json", false, "Output as JSON")

	return cmd
}

// stateDump is the JSON shape of one inspected status.
type stateDump struct {
	Status      api.Status       `json:"status"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	Transitions []transitionDump `json:"transitions,omitempty"`
	Deadlines   []deadlineDump   `json:"deadlines,omitempty"`
}

type transitionDump struct {
	To                     api.Status     `json:"to"`
	Label                  string         `json:"label"`
	Roles                  []api.Role     `json:"roles"`
	Categories             []api.Category `json:"categories,omitempty"`
	RequiresQuorum         bool           `json:"requires_quorum,omitempty"`
	RequiresDeadlineExpiry bool           `json:"requires_deadline_expiry,omitempty"`
	SideEffects            []string       `json:"side_effects,omitempty"`
}

type deadlineDump struct {
	Kind       api.DeadlineKind `json:"kind"`
	Days       int              `json:"days"`
	Categories []api.Category   `json:"categories,omitempty"`
	AutoAction api.Status       `json:"auto_action,omitempty"`
}

// inspectCatalog dumps catalog state definitions.
func (a *App) inspectCatalog(opts *inspectOptions) error {
	catalog := api.DefaultCatalog()

	var statuses []api.Status
	if opts.status != "" {
		st := api.Status(strings.ToUpper(opts.status))
		if _, ok := catalog.Definition(st); !ok {
			return fmt.Errorf("unknown status %q", opts.status)
		}
		statuses = []api.Status{st}
	} else {
		statuses = catalog.Statuses()
	}

	dumps := make([]stateDump, 0, len(statuses))
	for _, st := range statuses {
		def, _ := catalog.Definition(st)
		dumps = append(dumps, dumpState(st, def))
	}

	if opts.outputJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dumps)
	}

	for _, d := range dumps {
		a.printState(d)
	}
	return nil
}

func dumpState(st api.Status, def api.StateDefinition) stateDump {
	d := stateDump{
		Status:      st,
		Label:       def.Label,
		Description: def.Description,
	}
	for _, tr := range def.Transitions {
		td := transitionDump{
			To:                     tr.To,
			Label:                  tr.Label,
			Roles:                  tr.Guard.Roles,
			Categories:             tr.Guard.Categories,
			RequiresQuorum:         tr.Guard.RequiresQuorum,
			RequiresDeadlineExpiry: tr.Guard.RequiresDeadlineExpiry,
		}
		for _, se := range tr.SideEffects {
			td.SideEffects = append(td.SideEffects, string(se))
		}
		d.Transitions = append(d.Transitions, td)
	}
	for _, spec := range def.Deadlines {
		d.Deadlines = append(d.Deadlines, deadlineDump{
			Kind:       spec.Kind,
			Days:       spec.Kind.DurationDays(),
			Categories: spec.Categories,
			AutoAction: spec.AutoTransitionTo,
		})
	}
	return d
}

// printState renders one status as text.
func (a *App) printState(d stateDump) {
	fmt.Fprintf(a.stdout, "%s\n", strings.Repeat("═", 64))
	fmt.Fprintf(a.stdout, "%s — %s\n", d.Status, d.Label)
	if d.Description != "" {
		fmt.Fprintf(a.stdout, "%s\n", d.Description)
	}

	if len(d.Transitions) == 0 {
		fmt.Fprintf(a.stdout, "  terminal\n")
	}
	for _, tr := range d.Transitions {
		fmt.Fprintf(a.stdout, "  → %-28s %s\n", tr.To, tr.Label)
		fmt.Fprintf(a.stdout, "      roles: %s\n", joinRoles(tr.Roles))
		if len(tr.Categories) > 0 {
			fmt.Fprintf(a.stdout, "      categories: %s\n", joinCategories(tr.Categories))
		}
		if tr.RequiresQuorum {
			fmt.Fprintf(a.stdout, "      requires quorum\n")
		}
		if tr.RequiresDeadlineExpiry {
			fmt.Fprintf(a.stdout, "      requires deadline expiry\n")
		}
		if len(tr.SideEffects) > 0 {
			fmt.Fprintf(a.stdout, "      effects: %s\n", strings.Join(tr.SideEffects, ", "))
		}
	}

	for _, dl := range d.Deadlines {
		fmt.Fprintf(a.stdout, "  ⏱ %s (%dd", dl.Kind, dl.Days)
		if dl.AutoAction != "" {
			fmt.Fprintf(a.stdout, ", auto → %s", dl.AutoAction)
		}
		fmt.Fprintf(a.stdout, ")\n")
	}
}

func joinRoles(roles []api.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func joinCategories(categories []api.Category) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
