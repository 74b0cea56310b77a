package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olabarga/labplan/internal/cli/formatter"
	"github.com/olabarga/labplan/internal/contract"
)

func newOrganizeCmd(app *App) *cobra.Command {
	var (
		configPath string
		workers    int
		dryRun     bool
		force      bool
		yes        bool
		outPath    string
		csvPath    string
		semesters  semesterList
	)

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Organize lab groups from a configuration document",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			req := contract.NewOrganizeRequest(configPath)
			req.Workers = workers
			req.DryRun = dryRun
			req.Force = force
			req.OutputPath = outPath
			req.CSVPath = csvPath
			req.Semesters = semesters

			res, err := app.Organize.Organize(ctx, req)
			if err != nil {
				var oe *contract.OrganizeError
				if !errors.As(err, &oe) || oe.Code != contract.OrganizeErrResultsExist {
					return err
				}
				// The document already holds organized results. Scripts
				// opt in with --yes, terminals get asked.
				switch {
				case yes:
				case app.interactive() && confirm("The document already carries organized results. Overwrite them?"):
				default:
					return err
				}
				req.Force = true
				if res, err = app.Organize.Organize(ctx, req); err != nil {
					return err
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOrganizeResult(res))
			if !res.Succeeded {
				return fmt.Errorf("organization failed with %d critical findings", len(res.Diagnostics.Criticals()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "Configuration document to organize")
	cmd.Flags().IntVar(&workers, "workers", 1, "Validation workers")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Organize without writing the document or recording the run")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite results already present in the document")
	cmd.Flags().BoolVar(&yes, "yes", false, "Answer yes to the overwrite prompt")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the organized document here instead of back to --config")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Also export the organized groups as CSV")
	cmd.Flags().Var(&semesters, "semester", "Limit to one semester (repeatable: 1 or 2)")

	return cmd
}
