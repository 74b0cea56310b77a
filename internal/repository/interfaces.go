package repository

import (
	"context"
	"errors"

	"github.com/olabarga/labplan/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// RunRepo persists organization runs together with their confirmed
// group instances and unresolved conflicts.
type RunRepo interface {
	Create(ctx context.Context, r *domain.Run) error
	Finish(ctx context.Context, r *domain.Run) error
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	ListRecent(ctx context.Context, n int) ([]*domain.Run, error)
	Delete(ctx context.Context, id string) error
	SaveGroups(ctx context.Context, runID string, groups []*domain.LabGroup) error
	GroupsByRun(ctx context.Context, runID string) ([]*domain.LabGroup, error)
	SaveConflicts(ctx context.Context, runID string, conflicts []domain.Conflict) error
	ConflictsByRun(ctx context.Context, runID string) ([]domain.Conflict, error)
}
