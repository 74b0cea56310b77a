package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olabarga/labplan/internal/cli/formatter"
	"github.com/olabarga/labplan/internal/contract"
)

func newValidateCmd(app *App) *cobra.Command {
	var (
		configPath string
		workers    int
		semesters  semesterList
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration document without organizing",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewValidateRequest(configPath)
			req.Workers = workers
			req.Semesters = semesters

			res, err := app.Validate.Validate(context.Background(), req)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatValidation(res))
			if !res.OK {
				return fmt.Errorf("%d critical findings", res.Criticals)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "Configuration document to check")
	cmd.Flags().IntVar(&workers, "workers", 1, "Validation workers")
	cmd.Flags().Var(&semesters, "semester", "Limit to one semester (repeatable: 1 or 2)")

	return cmd
}
