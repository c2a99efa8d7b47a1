// Package transaction sequences cluster lifecycle steps and rolls back the
// steps already attempted when one of them fails.
package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/infra"
	"github.com/shadracnicholas/engine/internal/logging"
	"github.com/shadracnicholas/engine/internal/metrics"
)

// Status is the outcome of a commit.
type Status int

const (
	// StatusOk means every step succeeded.
	StatusOk Status = iota
	// StatusCanceled means a cancellable step was interrupted.
	StatusCanceled
	// StatusError means a step failed and rollback was attempted.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusCanceled:
		return "Canceled"
	default:
		return "Error"
	}
}

// Result is the outcome of Commit. Err is only set for StatusError.
type Result struct {
	Status Status
	Err    *engineerr.EngineError
}

// Transaction is an ordered batch of steps executed with rollback on failure.
// A Transaction is single-use: it is consumed by Commit.
type Transaction struct {
	infra         *infra.Context
	details       events.EventDetails
	logger        logging.Logger
	steps         []Step
	executedSteps []Step
	committed     bool
}

// New validates infraCtx and opens a transaction on it. The returned error
// is an *infra.ConfigError naming the first invalid collaborator.
func New(ctx context.Context, infraCtx *infra.Context, details events.EventDetails, logger logging.Logger) (*Transaction, error) {
	if err := infraCtx.Validate(ctx); err != nil {
		return nil, err
	}

	return &Transaction{
		infra:   infraCtx,
		details: details,
		logger:  logger,
	}, nil
}

// CreateKubernetes queues the creation of the cluster.
func (t *Transaction) CreateKubernetes() error {
	t.steps = append(t.steps, Step{Name: CreateKubernetes})
	return nil
}

// PauseKubernetes queues pausing the cluster.
func (t *Transaction) PauseKubernetes() error {
	t.steps = append(t.steps, Step{Name: PauseKubernetes})
	return nil
}

// DeleteKubernetes queues the deletion of the cluster.
func (t *Transaction) DeleteKubernetes() error {
	t.steps = append(t.steps, Step{Name: DeleteKubernetes})
	return nil
}

// Steps returns the queued steps.
func (t *Transaction) Steps() []Step {
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// Commit executes the queued steps in order. A step is recorded as executed
// before it runs, so a step failing halfway is rolled back too. On the first
// failure the executed steps are rolled back and the remaining ones are
// skipped.
func (t *Transaction) Commit(ctx context.Context) Result {
	if t.committed {
		return Result{
			Status: StatusError,
			Err:    engineerr.NewUnknown(t.details, "Transaction has already been committed.", nil),
		}
	}
	t.committed = true

	for _, step := range t.steps {
		t.executedSteps = append(t.executedSteps, step)

		err := t.execute(ctx, step)
		metrics.RecordTransactionStep(step.Name.String(), err == nil)
		if err == nil {
			continue
		}

		engineErr := t.toEngineError(step, err)
		if rbErr := t.rollback(ctx); rbErr != nil {
			t.logRollbackFailure(rbErr)
		}
		return Result{Status: StatusError, Err: engineErr}
	}

	return Result{Status: StatusOk}
}

func (t *Transaction) execute(ctx context.Context, step Step) error {
	kube := t.infra.Kubernetes
	switch step.Name {
	case CreateKubernetes:
		return kube.OnCreate(ctx)
	case PauseKubernetes:
		return kube.OnPause(ctx)
	case DeleteKubernetes:
		return kube.OnDelete(ctx)
	default:
		return fmt.Errorf("step %s is not an infrastructure step", step.Name)
	}
}

// rollback calls the compensating hook of every executed step, in the order
// the steps were executed. It stops at the first failing hook.
func (t *Transaction) rollback(ctx context.Context) *RollbackError {
	kube := t.infra.Kubernetes
	for _, step := range t.executedSteps {
		var err error
		switch step.Name {
		case CreateKubernetes:
			err = kube.OnCreateError(ctx)
		case PauseKubernetes:
			err = kube.OnPauseError(ctx)
		case DeleteKubernetes:
			err = kube.OnDeleteError(ctx)
		default:
			continue
		}
		if err != nil {
			metrics.RecordRollback(false)
			return &RollbackError{Kind: RollbackCommitError, Step: step.Name, Err: err}
		}
	}

	metrics.RecordRollback(true)
	return nil
}

func (t *Transaction) logRollbackFailure(rbErr *RollbackError) {
	if t.logger == nil {
		return
	}
	msg := fmt.Sprintf("Rollback of %s failed, resources may need manual cleanup.", rbErr.Step)

	var engineErr *engineerr.EngineError
	if errors.As(rbErr.Err, &engineErr) {
		t.logger.Log(logging.Error(engineErr, msg))
		return
	}
	t.logger.Log(logging.Error(engineerr.NewUnknown(t.details.CloneWithStage(stageOf(rbErr.Step)), msg, rbErr), msg))
}

func (t *Transaction) toEngineError(step Step, err error) *engineerr.EngineError {
	var engineErr *engineerr.EngineError
	if errors.As(err, &engineErr) {
		return engineErr
	}
	msg := fmt.Sprintf("Step %s failed.", step.Name)
	return engineerr.NewUnknown(t.details.CloneWithStage(stageOf(step.Name)), msg, err)
}

func stageOf(name StepName) events.Stage {
	switch name {
	case PauseKubernetes:
		return events.InfrastructureStage(events.InfrastructurePause)
	case DeleteKubernetes:
		return events.InfrastructureStage(events.InfrastructureDelete)
	default:
		return events.InfrastructureStage(events.InfrastructureCreate)
	}
}
