package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhle/roadmap-builder/internal/export"
	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/workspace"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

type planRow struct {
	model.Plan
	Current bool `json:"current" yaml:"current"`
}

func newPlansCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Show the pricing catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := model.PlanType("")
			if ws, _, err := a.signedInWorkspace(cmd.Context()); err == nil {
				current = ws.Gate().Plan()
			}

			rows := make([]planRow, len(model.PricingPlans))
			for i, p := range model.PricingPlans {
				rows[i] = planRow{Plan: p, Current: p.ID == current}
			}

			return writeOut(cmd, a, rows, func(w io.Writer) error {
				t := newTable("", "ID", "PLAN", "PRICE", "ROADMAPS", "EXPORT")
				for _, r := range rows {
					marker := ""
					if r.Current {
						marker = "*"
					}
					t.Row(marker, string(r.ID), r.Name, priceLabel(r.Plan), limitLabel(r.Limits.MaxRoadmaps), yesNo(r.Limits.Export))
				}
				_, err := fmt.Fprintln(w, t.Render())
				return err
			})
		},
	}
}

type roadmapRow struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Phases     int       `json:"phases" yaml:"phases"`
	Milestones string    `json:"milestones" yaml:"milestones"`
	Progress   int       `json:"progress" yaml:"progress"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

func newListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your roadmaps, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, _, err := a.signedInWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			var rows []roadmapRow
			for _, r := range ws.Roadmaps().Roadmaps() {
				rows = append(rows, roadmapRow{
					ID:         r.ID,
					Name:       r.Name,
					Phases:     len(r.Phases),
					Milestones: fmt.Sprintf("%d/%d", r.CompletedMilestones(), r.TotalMilestones()),
					Progress:   r.OverallProgress(),
					UpdatedAt:  r.UpdatedAt,
				})
			}

			return writeOut(cmd, a, rows, func(w io.Writer) error {
				if len(rows) == 0 {
					_, err := fmt.Fprintln(w, "No roadmaps yet. Run `roadmap create <name>` or start the builder.")
					return err
				}
				t := newTable("ID", "NAME", "PHASES", "MILESTONES", "PROGRESS", "UPDATED")
				for _, r := range rows {
					t.Row(r.ID, r.Name, strconv.Itoa(r.Phases), r.Milestones,
						fmt.Sprintf("%d%%", r.Progress), r.UpdatedAt.Local().Format("2006-01-02 15:04"))
				}
				_, err := fmt.Fprintln(w, t.Render())
				return err
			})
		},
	}
}

func newCreateCmd(a *App) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a roadmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, direct, err := a.signedInWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			id, err := ws.CreateRoadmap(args[0], description)
			if errors.Is(err, workspace.ErrQuotaExceeded) {
				return writeErr(cmd, fmt.Errorf("%w; run `roadmap upgrade monthly` for unlimited roadmaps", err))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := direct.Err(); err != nil {
				return writeErr(cmd, err)
			}

			r, _ := ws.Roadmaps().Get(id)
			return writeOut(cmd, a, r, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Created %q (%s)\n", r.Name, r.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Roadmap description")
	return cmd
}

func newLoginCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <name>",
		Short: "Sign in with a display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.session.SignIn(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, a, u, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Signed in as %s (%s)\n", u.Name, u.ID)
				return err
			})
		},
	}
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.SignOut(); err != nil {
				return writeErr(cmd, err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return err
		},
	}
}

type whoami struct {
	User          model.User     `json:"user" yaml:"user"`
	Plan          model.PlanType `json:"plan" yaml:"plan"`
	RoadmapsCount int            `json:"roadmaps_count" yaml:"roadmaps_count"`
}

func newWhoamiCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, _, err := a.signedInWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			out := whoami{User: ws.User(), Plan: ws.Gate().Plan(), RoadmapsCount: ws.Gate().RoadmapsCount()}
			return writeOut(cmd, a, out, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s on %s plan, %d roadmap(s)\n", out.User.Name, out.Plan, out.RoadmapsCount)
				return err
			})
		},
	}
}

func newUpgradeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:       "upgrade <plan>",
		Short:     "Switch to another plan (free, monthly, yearly)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: planIDs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := model.ParsePlan(strings.ToLower(strings.TrimSpace(args[0])))
			if err != nil {
				return writeErr(cmd, err)
			}
			ws, direct, err := a.signedInWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := ws.UpgradePlan(plan); err != nil {
				return writeErr(cmd, err)
			}
			if err := direct.Err(); err != nil {
				return writeErr(cmd, err)
			}

			p, _ := model.LookupPlan(plan)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "You are now on %s\n", p.Name)
			return err
		},
	}
}

func newExportCmd(a *App) *cobra.Command {
	var (
		formatFlag string
		outDir     string
		preview    bool
	)

	cmd := &cobra.Command{
		Use:   "export [roadmap-id]",
		Short: "Export a roadmap as Markdown or YAML (paid plans)",
		Long: strings.TrimSpace(`
Export writes roadmap-YYYY-MM-DD.<ext> into --out. Without a roadmap id the
newest roadmap, the one created most recently, is exported. --preview
renders the Markdown document in the terminal instead of writing a file.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(formatFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			ws, _, err := a.signedInWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 1 {
				ws.SelectRoadmap(args[0])
				if _, ok := ws.Active(); !ok {
					return writeErr(cmd, fmt.Errorf("roadmap %s: %w", args[0], model.ErrRoadmapNotFound))
				}
			}

			if preview {
				md, err := ws.Export(export.FormatMarkdown)
				if err != nil {
					return writeErr(cmd, exportError(err))
				}
				rendered, err := export.Preview(string(md), a.cfg.Display.Theme, 80)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
				return err
			}

			dir := outDir
			if dir == "" {
				dir = a.cfg.Export.Dir
			}
			path, err := ws.ExportToDir(dir, f, time.Now())
			if err != nil {
				return writeErr(cmd, exportError(err))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(export.FormatMarkdown),
		fmt.Sprintf("Export format (%s)", strings.Join(formatNames(), "|")))
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return formatNames(), cobra.ShellCompDirectiveNoFileComp
	})
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write into (default: export.dir from config)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Render the Markdown export in the terminal")
	return cmd
}

func exportError(err error) error {
	switch {
	case errors.Is(err, workspace.ErrExportLocked):
		return fmt.Errorf("%w; run `roadmap upgrade monthly` to unlock export", err)
	case errors.Is(err, workspace.ErrNoActiveRoadmap):
		return errors.New("no roadmaps to export")
	}
	return err
}

func planIDs() []string {
	ids := make([]string, len(model.PricingPlans))
	for i, p := range model.PricingPlans {
		ids[i] = string(p.ID)
	}
	return ids
}

func formatNames() []string {
	names := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		names[i] = string(f)
	}
	return names
}

func priceLabel(p model.Plan) string {
	if p.Price == 0 {
		return "$0"
	}
	return fmt.Sprintf("$%d/%s", p.Price, p.Interval)
}

func limitLabel(n int) string {
	if n == model.Unlimited {
		return "unlimited"
	}
	return strconv.Itoa(n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
