package service

import (
	"context"
	"io"

	"github.com/olabarga/labplan/internal/contract"
	"github.com/olabarga/labplan/internal/domain"
)

type OrganizeService interface {
	Organize(ctx context.Context, req contract.OrganizeRequest) (*contract.OrganizeResult, error)
}

type ValidateService interface {
	Validate(ctx context.Context, req contract.ValidateRequest) (*contract.ValidateResult, error)
}

type RunService interface {
	List(ctx context.Context, limit int) ([]*domain.Run, error)
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	Groups(ctx context.Context, runID string) ([]*domain.LabGroup, error)
	Conflicts(ctx context.Context, runID string) ([]domain.Conflict, error)
	Delete(ctx context.Context, id string) error
	ExportCSV(ctx context.Context, runID string, w io.Writer) error
}

type ImportService interface {
	ImportStudents(ctx context.Context, req contract.ImportStudentsRequest) (*contract.ImportStudentsResult, error)
	ImportCalendar(ctx context.Context, req contract.ImportCalendarRequest) (*contract.ImportCalendarResult, error)
}
