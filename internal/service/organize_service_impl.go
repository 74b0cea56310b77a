package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/olabarga/labplan/internal/assign"
	"github.com/olabarga/labplan/internal/config"
	"github.com/olabarga/labplan/internal/contract"
	"github.com/olabarga/labplan/internal/db"
	"github.com/olabarga/labplan/internal/domain"
	"github.com/olabarga/labplan/internal/engine"
	"github.com/olabarga/labplan/internal/repository"
	"github.com/olabarga/labplan/internal/results"
)

type organizeService struct {
	runs     repository.RunRepo
	uow      db.UnitOfWork
	phases   engine.PhaseObserver
	observer UseCaseObserver
}

// NewOrganizeService builds the full organization use case. The phase
// observer receives per-phase progress; pass nil to silence it.
func NewOrganizeService(
	runs repository.RunRepo,
	uow db.UnitOfWork,
	phases engine.PhaseObserver,
	observers ...UseCaseObserver,
) OrganizeService {
	return &organizeService{
		runs:     runs,
		uow:      uow,
		phases:   phases,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Organize loads the configuration, runs every organization phase,
// persists the run with its groups and conflicts, and writes the
// updated document and optional CSV. A plan the phases could not
// produce is not a Go error: the result reports Succeeded false with
// the diagnostics, and only infrastructure failures return error.
func (s *organizeService) Organize(ctx context.Context, req contract.OrganizeRequest) (result *contract.OrganizeResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"config":  req.ConfigPath,
		"dry_run": req.DryRun,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "organize",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	workers := req.Workers
	if workers < 1 {
		workers = 1
	}
	fields["workers"] = workers

	store, doc, err := loadStore(req.ConfigPath, req.Semesters)
	if err != nil {
		return nil, &contract.OrganizeError{
			Code:    contract.OrganizeErrConfigLoad,
			Message: err.Error(),
		}
	}
	if len(store.SubjectEntries()) == 0 {
		return nil, &contract.OrganizeError{
			Code:    contract.OrganizeErrNoSubjects,
			Message: "no subjects to organize",
		}
	}
	if s.wouldClobberResults(req, doc) {
		return nil, &contract.OrganizeError{
			Code:    contract.OrganizeErrResultsExist,
			Message: "document already carries organized results; pass force to overwrite",
		}
	}

	run := &domain.Run{
		ID:         uuid.New().String(),
		ConfigPath: req.ConfigPath,
		State:      domain.RunRunning,
		Workers:    workers,
		StartedAt:  startedAt,
	}
	if !req.DryRun {
		if err = s.runs.Create(ctx, run); err != nil {
			return nil, &contract.OrganizeError{
				Code:    contract.OrganizeErrPersistence,
				Message: fmt.Sprintf("recording run: %v", err),
			}
		}
		fields["run_id"] = run.ID
	}

	res, err := engine.NewPipeline(store, s.phases, workers).Run(ctx)
	if err != nil {
		s.abortRun(ctx, req, run)
		return nil, err
	}

	if !res.OK() {
		// Validation criticals or empty phases: record the failed run
		// and report diagnostics without touching the document.
		if !req.DryRun {
			markFinished(run, domain.RunFailed, 0, 0)
			if err = s.runs.Finish(ctx, run); err != nil {
				return nil, &contract.OrganizeError{
					Code:    contract.OrganizeErrPersistence,
					Message: fmt.Sprintf("recording failed run: %v", err),
				}
			}
		}
		fields["succeeded"] = false
		return &contract.OrganizeResult{
			RunID:       persistedID(req, run),
			Succeeded:   false,
			States:      res.States,
			Diagnostics: res.Diags,
			Elapsed:     time.Since(startedAt),
		}, nil
	}

	outcome, err := assign.NewAssigner(store, s.phases).Run(ctx, res)
	if err != nil {
		s.abortRun(ctx, req, run)
		return nil, err
	}

	notices := append(outcome.Notices, results.FinalCheck(res.Groups)...)
	section := results.NewBuilder().Build(res.Groups, outcome.Conflicts, notices)
	if err = results.MergeIntoDocument(doc, section); err != nil {
		s.abortRun(ctx, req, run)
		return nil, &contract.OrganizeError{
			Code:    contract.OrganizeErrInternal,
			Message: fmt.Sprintf("merging results: %v", err),
		}
	}

	fields["groups"] = len(res.Groups)
	fields["conflicts"] = len(outcome.Conflicts)
	fields["succeeded"] = true

	if !req.DryRun {
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txRuns := repository.NewSQLiteRunRepo(tx)
			if err := txRuns.SaveGroups(ctx, run.ID, res.Groups); err != nil {
				return fmt.Errorf("saving groups: %w", err)
			}
			if err := txRuns.SaveConflicts(ctx, run.ID, outcome.Conflicts); err != nil {
				return fmt.Errorf("saving conflicts: %w", err)
			}
			markFinished(run, domain.RunSucceeded, len(res.Groups), len(outcome.Conflicts))
			return txRuns.Finish(ctx, run)
		})
		if err != nil {
			return nil, &contract.OrganizeError{
				Code:    contract.OrganizeErrPersistence,
				Message: err.Error(),
			}
		}
	}

	var documentPath, csvPath string
	if !req.DryRun {
		documentPath = req.OutputPath
		if documentPath == "" {
			documentPath = req.ConfigPath
		}
		if err = config.Save(doc, documentPath); err != nil {
			return nil, &contract.OrganizeError{
				Code:    contract.OrganizeErrWriteOutput,
				Message: fmt.Sprintf("writing %s: %v", documentPath, err),
			}
		}
		if req.CSVPath != "" {
			if err = s.writeCSV(req.CSVPath, res.Groups); err != nil {
				return nil, &contract.OrganizeError{
					Code:    contract.OrganizeErrWriteOutput,
					Message: err.Error(),
				}
			}
			csvPath = req.CSVPath
		}
	}

	for phase, state := range outcome.States {
		res.States[phase] = state
	}

	return &contract.OrganizeResult{
		RunID:         persistedID(req, run),
		Succeeded:     true,
		States:        res.States,
		Diagnostics:   res.Diags,
		Conflicts:     outcome.Conflicts,
		Notices:       notices,
		GroupCount:    len(res.Groups),
		ConflictCount: len(outcome.Conflicts),
		Elapsed:       time.Since(startedAt),
		DocumentPath:  documentPath,
		CSVPath:       csvPath,
	}, nil
}

// wouldClobberResults guards the write-back path: organizing into a
// document that already has results needs Force. Dry runs and runs
// redirected to another output file write nothing over the original.
func (s *organizeService) wouldClobberResults(req contract.OrganizeRequest, doc *config.Document) bool {
	if req.DryRun || req.Force {
		return false
	}
	if req.OutputPath != "" && req.OutputPath != req.ConfigPath {
		return false
	}
	return doc.HasResults()
}

// abortRun marks an interrupted run failed so no row stays running
// forever. Best effort: the interruption error is what the caller
// reports.
func (s *organizeService) abortRun(ctx context.Context, req contract.OrganizeRequest, run *domain.Run) {
	if req.DryRun {
		return
	}
	markFinished(run, domain.RunFailed, 0, 0)
	_ = s.runs.Finish(context.WithoutCancel(ctx), run)
}

func markFinished(run *domain.Run, state domain.RunState, groups, conflicts int) {
	now := time.Now().UTC()
	run.State = state
	run.GroupCount = groups
	run.ConflictCount = conflicts
	run.FinishedAt = &now
}

func (s *organizeService) writeCSV(path string, groups []*domain.LabGroup) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := results.WriteCSV(f, groups); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func persistedID(req contract.OrganizeRequest, run *domain.Run) string {
	if req.DryRun {
		return ""
	}
	return run.ID
}
