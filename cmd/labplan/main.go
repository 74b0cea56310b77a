package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/olabarga/labplan/internal/cli"
	"github.com/olabarga/labplan/internal/db"
	"github.com/olabarga/labplan/internal/engine"
	"github.com/olabarga/labplan/internal/repository"
	"github.com/olabarga/labplan/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Run history lives in the working directory unless LABPLAN_DB
	// points elsewhere.
	dbPath := os.Getenv("LABPLAN_DB")
	if dbPath == "" {
		dbPath = "labplan.db"
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	runRepo := repository.NewSQLiteRunRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// LABPLAN_LOG turns on structured phase and use-case logging to
	// stderr; unset keeps the CLI output clean.
	var phaseObs engine.PhaseObserver
	var ucObs []service.UseCaseObserver
	if level, ok := logLevel(os.Getenv("LABPLAN_LOG")); ok {
		phaseObs = engine.NewLogPhaseObserver(os.Stderr, level)
		ucObs = append(ucObs, service.NewLogUseCaseObserver(os.Stderr, level))
	}

	app := &cli.App{
		Organize: service.NewOrganizeService(runRepo, uow, phaseObs, ucObs...),
		Validate: service.NewValidateService(ucObs...),
		Runs:     service.NewRunService(runRepo, ucObs...),
		Imports:  service.NewImportService(ucObs...),
	}

	// Detect interactive terminal for prompts and the runs browser.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

func logLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}
