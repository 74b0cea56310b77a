package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/olabarga/labplan/internal/domain"
	"github.com/olabarga/labplan/internal/repository"
	"github.com/olabarga/labplan/internal/results"
)

type runService struct {
	runs     repository.RunRepo
	observer UseCaseObserver
}

func NewRunService(runs repository.RunRepo, observers ...UseCaseObserver) RunService {
	return &runService{runs: runs, observer: useCaseObserverOrNoop(observers)}
}

func (s *runService) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit < 1 {
		limit = 20
	}
	return s.runs.ListRecent(ctx, limit)
}

func (s *runService) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	return s.runs.GetByID(ctx, id)
}

func (s *runService) Groups(ctx context.Context, runID string) ([]*domain.LabGroup, error) {
	return s.runs.GroupsByRun(ctx, runID)
}

func (s *runService) Conflicts(ctx context.Context, runID string) ([]domain.Conflict, error) {
	return s.runs.ConflictsByRun(ctx, runID)
}

func (s *runService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "remove-run",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"run_id": id},
		})
	}()

	if _, err = s.runs.GetByID(ctx, id); err != nil {
		return fmt.Errorf("loading run %s: %w", id, err)
	}
	return s.runs.Delete(ctx, id)
}

// ExportCSV writes a persisted run's groups as the flat CSV the
// organize command produces, so past runs stay exportable.
func (s *runService) ExportCSV(ctx context.Context, runID string, w io.Writer) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"run_id": runID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "export-csv",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if _, err = s.runs.GetByID(ctx, runID); err != nil {
		return fmt.Errorf("loading run %s: %w", runID, err)
	}
	groups, err := s.runs.GroupsByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("loading groups for run %s: %w", runID, err)
	}
	fields["groups"] = len(groups)
	return results.WriteCSV(w, groups)
}
