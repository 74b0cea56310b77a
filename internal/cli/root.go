package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Organize service.OrganizeService
	Validate service.ValidateService
	Runs     service.RunService
	Imports  service.ImportService

	// IsInteractive reports whether stdin is a terminal. Commands that
	// would prompt fall back to requiring --yes when it returns false
	// or is nil.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// defaultConfigPath is the --config default: LABPLAN_CONFIG when set,
// else the conventional document name in the working directory.
func defaultConfigPath() string {
	if p := os.Getenv("LABPLAN_CONFIG"); p != "" {
		return p
	}
	return config.DefaultDocumentName
}

// NewRootCmd creates the top-level "labplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "labplan",
		Short: "Laboratory session organizer",
		Long: `labplan reads a laboratory configuration document, validates it,
organizes subjects into scheduled lab groups and records every run.`,
	}

	root.AddCommand(
		newValidateCmd(app),
		newOrganizeCmd(app),
		newRunsCmd(app),
		newExportCmd(app),
		newStudentsCmd(app),
		newCalendarCmd(app),
	)

	return root
}
