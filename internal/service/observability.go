package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/repository"
)

// SlowUseCase is the duration above which a successful use case is logged
// as a warning.
const SlowUseCase = 2 * time.Second

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	// Fields are call parameters and results, e.g. session_id or view.
	Fields map[string]any
}

// UseCaseObserver receives one event per service call.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// NewLogUseCaseObserver logs events as text lines on w. A nil writer
// disables logging.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, nil)))
}

// NewSlogUseCaseObserver logs events through logger. Caller mistakes such
// as an unknown session or a rejected file are warnings; other failures
// are errors.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &slogUseCaseObserver{logger: logger}
}

type slogUseCaseObserver struct {
	logger *slog.Logger
}

func (o *slogUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]slog.Attr, 0, 4+len(event.Fields))
	attrs = append(attrs,
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success),
	)

	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}

	level := slog.LevelInfo
	switch {
	case event.Err != nil:
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		level = slog.LevelError
		if isCallerError(event.Err) {
			level = slog.LevelWarn
		}
	case event.Duration > SlowUseCase:
		attrs = append(attrs, slog.Bool("slow", true))
		level = slog.LevelWarn
	}
	o.logger.LogAttrs(ctx, level, "service_use_case", attrs...)
}

func isCallerError(err error) bool {
	return errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, ErrUnsupportedFile) ||
		errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, domain.ErrInvalidView)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
