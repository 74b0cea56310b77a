package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olabarga/labplan/internal/cli/formatter"
	"github.com/olabarga/labplan/internal/contract"
)

func newStudentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Manage the student roster",
	}

	cmd.AddCommand(newStudentsImportCmd(app))

	return cmd
}

func newStudentsImportCmd(app *App) *cobra.Command {
	var (
		configPath string
		subject    string
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge a roster file (.xls, .yaml) into the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Imports.ImportStudents(context.Background(), contract.ImportStudentsRequest{
				ConfigPath: configPath,
				FilePath:   args[0],
				Subject:    subject,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d students (%d updated)\n", res.Imported, res.Updated)
			for _, rowErr := range res.RowErrors {
				fmt.Fprintf(out, "%s %s\n", formatter.StyleYellow.Render("!"), rowErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "Configuration document to update")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject to enroll spreadsheet rows in")

	return cmd
}

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage the session calendar",
	}

	cmd.AddCommand(newCalendarImportCmd(app))

	return cmd
}

func newCalendarImportCmd(app *App) *cobra.Command {
	var (
		configPath string
		semester   string
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace one semester's calendar from a published HTML schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Imports.ImportCalendar(context.Background(), contract.ImportCalendarRequest{
				ConfigPath: configPath,
				FilePath:   args[0],
				Semester:   semester,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Replaced %s with %d dated sessions\n", res.Semester, res.Days)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "Configuration document to update")
	cmd.Flags().StringVar(&semester, "semester", "1", "Semester the schedule belongs to (1 or 2)")

	return cmd
}
