package app

import "context"

type OrganizeUseCase interface {
	Organize(ctx context.Context, req OrganizeRequest) (*OrganizeResult, error)
}

type ValidateUseCase interface {
	Validate(ctx context.Context, req ValidateRequest) (*ValidateResult, error)
}

type ImportStudentsUseCase interface {
	ImportStudents(ctx context.Context, req ImportStudentsRequest) (*ImportStudentsResult, error)
}

type ImportCalendarUseCase interface {
	ImportCalendar(ctx context.Context, req ImportCalendarRequest) (*ImportCalendarResult, error)
}
