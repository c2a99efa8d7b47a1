package task

import (
	"context"
	"fmt"

	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/infra"
	"github.com/shadracnicholas/engine/internal/logging"
	"github.com/shadracnicholas/engine/internal/metrics"
	"github.com/shadracnicholas/engine/internal/transaction"
	"github.com/shadracnicholas/engine/internal/util/archive"
)

// InfraAction is the cluster lifecycle operation of an InfrastructureTask.
type InfraAction int

const (
	// InfraCreate creates or updates the cluster.
	InfraCreate InfraAction = iota
	// InfraPause stops the cluster servers.
	InfraPause
	// InfraDelete removes the cluster.
	InfraDelete
)

func (a InfraAction) String() string {
	switch a {
	case InfraCreate:
		return "create"
	case InfraPause:
		return "pause"
	case InfraDelete:
		return "delete"
	default:
		return fmt.Sprintf("InfraAction(%d)", int(a))
	}
}

func (a InfraAction) steps() (running, done events.InfrastructureStep) {
	switch a {
	case InfraPause:
		return events.InfrastructurePause, events.InfrastructurePaused
	case InfraDelete:
		return events.InfrastructureDelete, events.InfrastructureDeleted
	default:
		return events.InfrastructureCreate, events.InfrastructureCreated
	}
}

// ArchiveUploader stores the workspace archive of an execution.
type ArchiveUploader interface {
	Upload(ctx context.Context, details events.EventDetails, data []byte) error
}

// InfrastructureTask runs one cluster lifecycle operation in a transaction
// and archives the workspace afterwards.
type InfrastructureTask struct {
	Action  InfraAction
	Infra   *infra.Context
	Details events.EventDetails
	Logger  logging.Logger

	// WorkspaceDir is archived after the transaction unless SkipArchive is
	// set or Archive is nil.
	WorkspaceDir string
	Archive      ArchiveUploader
	SkipArchive  bool
}

// Run executes the task. Failures are logged as events and returned in
// the result.
func (t *InfrastructureTask) Run(ctx context.Context) transaction.Result {
	running, _ := t.Action.steps()
	details := t.Details.CloneWithStage(events.InfrastructureStage(running))

	result := t.commit(ctx, details)
	t.report(details, result)
	t.archiveWorkspace(ctx, details)
	return result
}

func (t *InfrastructureTask) commit(ctx context.Context, details events.EventDetails) transaction.Result {
	tx, err := transaction.New(ctx, t.Infra, details, t.Logger)
	if err != nil {
		return transaction.Result{Status: transaction.StatusError, Err: configEngineError(details, err)}
	}

	switch t.Action {
	case InfraPause:
		err = tx.PauseKubernetes()
	case InfraDelete:
		err = tx.DeleteKubernetes()
	default:
		err = tx.CreateKubernetes()
	}
	if err != nil {
		return transaction.Result{Status: transaction.StatusError, Err: engineerr.NewUnknown(details, "Cannot queue infrastructure step.", err)}
	}
	return tx.Commit(ctx)
}

func (t *InfrastructureTask) report(details events.EventDetails, result transaction.Result) {
	if t.Logger == nil {
		return
	}
	_, done := t.Action.steps()

	switch result.Status {
	case transaction.StatusOk:
		t.Logger.Log(logging.Info(
			details.CloneWithStage(events.InfrastructureStage(done)),
			fmt.Sprintf("Kubernetes cluster successfully %s", done),
		))
	case transaction.StatusCanceled:
		t.Logger.Log(logging.Warning(
			details.CloneWithStage(details.Stage().ToCancel()),
			fmt.Sprintf("Kubernetes cluster %s canceled", t.Action),
		))
	default:
		errStage := details.Stage().ToError()
		engineErr := result.Err.CloneWithStage(errStage)
		step, _ := errStage.Infrastructure()
		t.Logger.Log(logging.Error(engineErr, fmt.Sprintf("Kubernetes cluster failure %s", step)))
	}
}

func (t *InfrastructureTask) archiveWorkspace(ctx context.Context, details events.EventDetails) {
	if t.SkipArchive || t.Archive == nil || t.WorkspaceDir == "" {
		return
	}

	data, err := archive.TarGz(t.WorkspaceDir)
	if err != nil {
		t.logError(engineerr.NewCannotBuildWorkspaceArchive(details, t.WorkspaceDir, err), "Cannot archive the workspace.")
		return
	}

	err = t.Archive.Upload(ctx, details, data)
	metrics.RecordArchiveUpload(err == nil)
	if err != nil {
		engineErr, ok := engineerr.As(err)
		if !ok {
			engineErr = engineerr.NewUnknown(details, "Cannot upload the workspace archive.", err)
		}
		t.logError(engineErr, "Error while uploading the workspace archive.")
	}
}

func (t *InfrastructureTask) logError(err *engineerr.EngineError, msg string) {
	if t.Logger != nil {
		t.Logger.Log(logging.Error(err, msg))
	}
}

// configEngineError converts an invalid context into the engine error
// matching the failing collaborator.
func configEngineError(details events.EventDetails, err error) *engineerr.EngineError {
	if engineErr, ok := engineerr.As(err); ok {
		return engineErr
	}

	switch {
	case infra.IsConfigError(err, infra.CloudProviderNotValid):
		return engineerr.NewCloudProviderClientInvalidCredentials(details, err)
	case infra.IsConfigError(err, infra.DNSProviderNotValid):
		return engineerr.NewDNSProviderInvalidCredentials(details, err)
	case infra.IsConfigError(err, infra.KubernetesNotValid):
		return engineerr.NewCannotConnectK8sCluster(details, err)
	case infra.IsConfigError(err, infra.BuildPlatformNotValid):
		return engineerr.NewDockerError(details, err)
	default:
		return engineerr.NewUnknown(details, "Invalid infrastructure configuration.", err)
	}
}
