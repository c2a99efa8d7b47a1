package task

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shadracnicholas/engine/internal/action"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/logging"
	"github.com/shadracnicholas/engine/internal/platform/docker"
	"github.com/shadracnicholas/engine/internal/util/naming"
)

// Namespace is the Kubernetes namespace of an environment.
func Namespace(projectShortID, environmentShortID string) string {
	return naming.Namespace(projectShortID, environmentShortID)
}

// EnvironmentTask applies one action to every service of an environment.
type EnvironmentTask struct {
	Action             action.Action
	ProjectShortID     string
	EnvironmentShortID string

	Databases  []action.DeploymentAction
	Containers []action.DeploymentAction
	Routers    []action.DeploymentAction

	// Target is completed by Run with the namespace and staged details.
	Target *action.DeploymentTarget
	// Builds are the images built before a deploy, with Builder.
	Builds  []docker.BuildRequest
	Builder ImageBuilder

	// MaxParallel bounds the services of one group running at once.
	// Zero means no limit.
	MaxParallel int
	// ReportFrequency is the progress cadence of image builds.
	ReportFrequency time.Duration
}

type serviceGroup struct {
	name     string
	services []action.DeploymentAction
}

func (t *EnvironmentTask) step() events.EnvironmentStep {
	switch t.Action {
	case action.Pause:
		return events.EnvironmentPause
	case action.Delete:
		return events.EnvironmentDelete
	default:
		return events.EnvironmentDeploy
	}
}

func (t *EnvironmentTask) doneStep() events.EnvironmentStep {
	switch t.Action {
	case action.Pause:
		return events.EnvironmentPaused
	case action.Delete:
		return events.EnvironmentDeleted
	default:
		return events.EnvironmentDeployed
	}
}

// groups orders the services: databases, containers then routers on
// deploy, the reverse on pause and delete.
func (t *EnvironmentTask) groups() []serviceGroup {
	groups := []serviceGroup{
		{name: "databases", services: t.Databases},
		{name: "containers", services: t.Containers},
		{name: "routers", services: t.Routers},
	}
	if t.Action == action.Pause || t.Action == action.Delete {
		groups[0], groups[2] = groups[2], groups[0]
	}
	return groups
}

// Run executes the action group by group. Services of a group run in
// parallel; the first failure stops the group and the remaining groups
// are skipped. Cancellation is checked before each group.
func (t *EnvironmentTask) Run(ctx context.Context) error {
	target := *t.Target
	target.Namespace = Namespace(t.ProjectShortID, t.EnvironmentShortID)
	target.Details = target.Details.CloneWithStage(events.EnvironmentStage(t.step()))
	details := target.Details

	if t.Action == action.Nothing {
		return nil
	}

	if t.Action == action.Create && len(t.Builds) > 0 {
		if err := t.build(ctx, &target); err != nil {
			return t.fail(&target, err)
		}
	}

	if t.Action == action.Create {
		if err := target.Kube.EnsureNamespace(ctx, target.Namespace); err != nil {
			return t.fail(&target, engineerr.NewCannotConnectK8sCluster(details, fmt.Errorf("ensure namespace %s: %w", target.Namespace, err)))
		}
	}

	for _, group := range t.groups() {
		if len(group.services) == 0 {
			continue
		}
		if target.Canceled() {
			engineErr := engineerr.NewTaskCancellationRequested(details.CloneWithStage(details.Stage().ToCancel()))
			target.Log(logging.Warning(engineErr.EventDetails(), "Environment task canceled"))
			return engineErr
		}

		target.Log(logging.Info(details, fmt.Sprintf("Running %s on %d %s", t.Action, len(group.services), group.name)))
		if err := t.runGroup(ctx, &target, group.services); err != nil {
			return t.fail(&target, err)
		}
	}

	target.Log(logging.Info(
		details.CloneWithStage(events.EnvironmentStage(t.doneStep())),
		fmt.Sprintf("Environment %s successfully %s", target.Namespace, t.doneStep()),
	))
	return nil
}

func (t *EnvironmentTask) runGroup(ctx context.Context, target *action.DeploymentTarget, services []action.DeploymentAction) error {
	g, gctx := errgroup.WithContext(ctx)
	if t.MaxParallel > 0 {
		g.SetLimit(t.MaxParallel)
	}
	for _, svc := range services {
		g.Go(func() error {
			return action.ExecAction(gctx, svc, target, t.Action)
		})
	}
	return g.Wait()
}

func (t *EnvironmentTask) fail(target *action.DeploymentTarget, err error) error {
	engineErr, ok := engineerr.As(err)
	if !ok {
		engineErr = engineerr.NewUnknown(target.Details, "Environment task failed.", err)
	}
	if engineErr.Tag().IsCancel() {
		return engineErr
	}
	engineErr = engineErr.CloneWithStage(engineErr.EventDetails().Stage().ToError())
	target.Log(logging.Error(engineErr, ""))
	return engineErr
}
