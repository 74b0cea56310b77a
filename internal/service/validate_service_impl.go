package service

import (
	"context"
	"fmt"
	"time"

	"github.com/olabarga/labplan/internal/contract"
	"github.com/olabarga/labplan/internal/engine"
)

type validateService struct {
	observer UseCaseObserver
}

func NewValidateService(observers ...UseCaseObserver) ValidateService {
	return &validateService{observer: useCaseObserverOrNoop(observers)}
}

// Validate runs the configuration validation phase on its own. Nothing
// is persisted and the document is never written.
func (s *validateService) Validate(ctx context.Context, req contract.ValidateRequest) (result *contract.ValidateResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"config": req.ConfigPath}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "validate",
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

	store, _, err := loadStore(req.ConfigPath, req.Semesters)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", req.ConfigPath, err)
	}

	ok, _, diags := engine.NewValidator(store, workers).Run()
	fields["criticals"] = len(diags.Criticals())
	fields["warnings"] = len(diags.Warnings())

	return &contract.ValidateResult{
		OK:          ok,
		Diagnostics: diags,
		Criticals:   len(diags.Criticals()),
		Warnings:    len(diags.Warnings()),
	}, nil
}
