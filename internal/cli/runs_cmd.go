package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olabarga/labplan/internal/cli/formatter"
)

// resolveRunID expands a full ID or a unique prefix (such as the short
// ID shown by "runs list") into the stored run ID.
func resolveRunID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("run ID is required")
	}

	runs, err := app.Runs.List(ctx, 1000)
	if err != nil {
		return "", err
	}

	for _, r := range runs {
		if r.ID == input {
			return r.ID, nil
		}
	}

	var matches []string
	for _, r := range runs {
		if strings.HasPrefix(r.ID, strings.ToLower(input)) {
			matches = append(matches, r.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("run not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("run ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newRunsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded organization runs",
	}

	cmd.AddCommand(
		newRunsListCmd(app),
		newRunsShowCmd(app),
		newRunsRemoveCmd(app),
		newRunsBrowseCmd(app),
	)

	return cmd
}

func newRunsListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.Runs.List(context.Background(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunList(runs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")

	return cmd
}

func newRunsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one run with its groups and conflicts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			runID, err := resolveRunID(ctx, app, args[0])
			if err != nil {
				return err
			}
			run, err := app.Runs.GetByID(ctx, runID)
			if err != nil {
				return err
			}
			groups, err := app.Runs.Groups(ctx, runID)
			if err != nil {
				return err
			}
			conflicts, err := app.Runs.Conflicts(ctx, runID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunDetail(run, groups, conflicts))
			return nil
		},
	}
}

func newRunsRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a run and its stored groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			runID, err := resolveRunID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to remove without --yes")
				}
				if !confirm(fmt.Sprintf("Remove run %s and its groups?", runID[:8])) {
					return nil
				}
			}

			if err := app.Runs.Delete(ctx, runID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed run %s\n", runID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export a run's groups as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			runID, err := resolveRunID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if outPath == "" {
				return app.Runs.ExportCSV(ctx, runID, cmd.OutOrStdout())
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			if err := app.Runs.ExportCSV(ctx, runID, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported run %s to %s\n", runID[:8], outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write CSV here instead of stdout")

	return cmd
}
