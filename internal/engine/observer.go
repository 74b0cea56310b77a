package engine

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/olabarga/labplan/internal/domain"
)

// PhaseEvent captures one organization phase execution.
type PhaseEvent struct {
	Phase     domain.Phase
	State     domain.PhaseState
	Duration  time.Duration
	Criticals int
	Warnings  int
	// Units counts what the phase produced: letter capacities, date
	// buckets, room choices or group instances.
	Units int
}

// PhaseObserver receives phase execution events.
type PhaseObserver interface {
	ObservePhase(ctx context.Context, event PhaseEvent)
}

// NoopPhaseObserver ignores all events.
type NoopPhaseObserver struct{}

func (NoopPhaseObserver) ObservePhase(context.Context, PhaseEvent) {}

type logPhaseObserver struct {
	logger *slog.Logger
}

// NewLogPhaseObserver writes phase events to the provided writer.
func NewLogPhaseObserver(w io.Writer, level slog.Level) PhaseObserver {
	if w == nil {
		return NoopPhaseObserver{}
	}
	return &logPhaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

func (o *logPhaseObserver) ObservePhase(ctx context.Context, event PhaseEvent) {
	attrs := []any{
		"phase", string(event.Phase),
		"state", string(event.State),
		"duration_ms", event.Duration.Milliseconds(),
		"units", event.Units,
		"warnings", event.Warnings,
	}
	if event.State == domain.StateFailed {
		attrs = append(attrs, "criticals", event.Criticals)
		o.logger.ErrorContext(ctx, "organization_phase", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "organization_phase", attrs...)
}

func observerOrNoop(obs PhaseObserver) PhaseObserver {
	if obs != nil {
		return obs
	}
	return NoopPhaseObserver{}
}
