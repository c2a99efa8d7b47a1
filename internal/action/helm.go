package action

import (
	"context"
	"fmt"
	"time"

	"github.com/shadracnicholas/engine/internal/command"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/helm"
	"github.com/shadracnicholas/engine/internal/logging"
)

// Helm release defaults.
const (
	DefaultHelmTimeout        = 10 * time.Minute
	DefaultDeleteTimeout      = 10 * time.Minute
	DefaultDeletePollInterval = 10 * time.Second
)

// HelmDeployment deploys a chart. Creating installs or upgrades the release,
// deleting uninstalls it and waits for its pods to be gone, pausing does
// nothing.
type HelmDeployment struct {
	Chart       helm.Chart
	Transmitter events.Transmitter
	// PodSelector selects the pods of the release. Defaults to the standard
	// instance label.
	PodSelector        string
	Timeout            time.Duration
	DeleteTimeout      time.Duration
	DeletePollInterval time.Duration
}

// NewHelmDeployment creates a HelmDeployment with default timeouts.
func NewHelmDeployment(chart helm.Chart, transmitter events.Transmitter) *HelmDeployment {
	return &HelmDeployment{
		Chart:              chart,
		Transmitter:        transmitter,
		Timeout:            DefaultHelmTimeout,
		DeleteTimeout:      DefaultDeleteTimeout,
		DeletePollInterval: DefaultDeletePollInterval,
	}
}

func (h *HelmDeployment) details(target *DeploymentTarget, step events.EnvironmentStep) events.EventDetails {
	return target.Details.
		CloneWithStage(events.EnvironmentStage(step)).
		CloneWithTransmitter(h.Transmitter)
}

func (h *HelmDeployment) selector() string {
	if h.PodSelector != "" {
		return h.PodSelector
	}
	return "app.kubernetes.io/instance=" + h.Chart.ReleaseName
}

// OnCreate installs or upgrades the release under a Killer so an operator
// cancel or the timeout stops it.
func (h *HelmDeployment) OnCreate(ctx context.Context, target *DeploymentTarget) error {
	details := h.details(target, events.EnvironmentDeploy)
	target.Log(logging.Info(details, fmt.Sprintf("Deploying helm chart %s", h.Chart.DisplayName())))

	killer := command.NewKiller(h.Timeout, target.IsTaskCanceled)
	err := killer.Run(ctx, func(ctx context.Context) error {
		return target.Helm.InstallOrUpgrade(ctx, h.Chart, h.Timeout)
	})
	if err == nil {
		return nil
	}

	if aborted, ok := command.IsAborted(err); ok {
		if aborted.Reason == command.AbortCanceled {
			return engineerr.NewTaskCancellationRequested(details)
		}
		return engineerr.NewHelmDeployTimeout(details, h.Chart.DisplayName(), aborted.Timeout)
	}
	return engineerr.NewHelmChartsDeployError(details, h.Chart.DisplayName(), err)
}

// OnPause does nothing. Workloads are paused by the services owning them.
func (h *HelmDeployment) OnPause(_ context.Context, _ *DeploymentTarget) error {
	return nil
}

// OnDelete uninstalls the release then waits for its pods to terminate.
func (h *HelmDeployment) OnDelete(ctx context.Context, target *DeploymentTarget) error {
	details := h.details(target, events.EnvironmentDelete)
	target.Log(logging.Info(details, fmt.Sprintf("Deleting helm release %s", h.Chart.ReleaseName)))

	if err := target.Helm.Uninstall(h.Chart.ReleaseName, h.DeleteTimeout); err != nil {
		return engineerr.NewHelmChartUninstallError(details, h.Chart.ReleaseName, err)
	}

	if target.Kube == nil {
		return nil
	}
	selector := h.selector()
	if err := target.Kube.WaitForPodsGone(ctx, target.Namespace, selector, h.DeletePollInterval, h.DeleteTimeout); err != nil {
		return engineerr.NewK8sPodsNotTerminated(details, selector, h.DeleteTimeout)
	}
	return nil
}
