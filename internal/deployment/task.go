package deployment

import (
	"context"

	"github.com/shadracnicholas/engine/internal/logging"
)

// TaskFuncs builds a Task from closures. Nil closures are no-ops returning
// zero values.
type TaskFuncs[P, R any] struct {
	PreRunFunc         func(ctx context.Context, logger logging.Logger) (P, error)
	RunFunc            func(ctx context.Context, logger logging.Logger, pre P) (R, error)
	PostRunSuccessFunc func(ctx context.Context, logger logging.Logger, result R)
}

// NewTask creates a Task from its three phases.
func NewTask[P, R any](
	preRun func(ctx context.Context, logger logging.Logger) (P, error),
	run func(ctx context.Context, logger logging.Logger, pre P) (R, error),
	postRunSuccess func(ctx context.Context, logger logging.Logger, result R),
) *TaskFuncs[P, R] {
	return &TaskFuncs[P, R]{
		PreRunFunc:         preRun,
		RunFunc:            run,
		PostRunSuccessFunc: postRunSuccess,
	}
}

// RunOnly creates a Task without setup or cleanup.
func RunOnly[R any](run func(ctx context.Context, logger logging.Logger) (R, error)) *TaskFuncs[struct{}, R] {
	return &TaskFuncs[struct{}, R]{
		RunFunc: func(ctx context.Context, logger logging.Logger, _ struct{}) (R, error) {
			return run(ctx, logger)
		},
	}
}

// PreRun implements Task.
func (t *TaskFuncs[P, R]) PreRun(ctx context.Context, logger logging.Logger) (P, error) {
	if t.PreRunFunc == nil {
		var zero P
		return zero, nil
	}
	return t.PreRunFunc(ctx, logger)
}

// Run implements Task.
func (t *TaskFuncs[P, R]) Run(ctx context.Context, logger logging.Logger, pre P) (R, error) {
	if t.RunFunc == nil {
		var zero R
		return zero, nil
	}
	return t.RunFunc(ctx, logger, pre)
}

// PostRunSuccess implements Task.
func (t *TaskFuncs[P, R]) PostRunSuccess(ctx context.Context, logger logging.Logger, result R) {
	if t.PostRunSuccessFunc != nil {
		t.PostRunSuccessFunc(ctx, logger, result)
	}
}
