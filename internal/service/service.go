// Package service implements the deployable units of an environment:
// containers, databases and routers. Each one is a DeploymentAction whose
// create runs as a reported long deployment.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shadracnicholas/engine/internal/action"
	"github.com/shadracnicholas/engine/internal/deployment"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/helm"
	"github.com/shadracnicholas/engine/internal/logging"
	"github.com/shadracnicholas/engine/internal/report"
)

// DefaultPauseTimeout bounds how long paused pods may take to terminate.
const DefaultPauseTimeout = 5 * time.Minute

// Options are shared by every service kind.
type Options struct {
	Name     string
	Chart    helm.Chart
	Selector string

	HelmTimeout     time.Duration
	DeleteTimeout   time.Duration
	PauseTimeout    time.Duration
	PollInterval    time.Duration
	ReportFrequency time.Duration
}

func (o Options) withDefaults() Options {
	if o.Chart.ReleaseName == "" {
		o.Chart.ReleaseName = o.Name
	}
	if o.Selector == "" {
		o.Selector = "app.kubernetes.io/instance=" + o.Chart.ReleaseName
	}
	if o.HelmTimeout <= 0 {
		o.HelmTimeout = action.DefaultHelmTimeout
	}
	if o.DeleteTimeout <= 0 {
		o.DeleteTimeout = action.DefaultDeleteTimeout
	}
	if o.PauseTimeout <= 0 {
		o.PauseTimeout = DefaultPauseTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = action.DefaultDeletePollInterval
	}
	if o.ReportFrequency <= 0 {
		o.ReportFrequency = deployment.DefaultReportFrequency
	}
	return o
}

func (o Options) helmDeployment(transmitter events.Transmitter) *action.HelmDeployment {
	h := action.NewHelmDeployment(o.Chart, transmitter)
	h.PodSelector = o.Selector
	h.Timeout = o.HelmTimeout
	h.DeleteTimeout = o.DeleteTimeout
	h.DeletePollInterval = o.PollInterval
	return h
}

func stagedDetails(target *action.DeploymentTarget, step events.EnvironmentStep, transmitter events.Transmitter) events.EventDetails {
	return target.Details.
		CloneWithStage(events.EnvironmentStage(step)).
		CloneWithTransmitter(transmitter)
}

func (o Options) reporter(ctx context.Context, target *action.DeploymentTarget, details events.EventDetails) deployment.Reporter[string, *report.KubeState] {
	logger := target.Logger
	if logger == nil {
		logger = logging.Multi{}
	}
	return report.NewKubeReporter[string](ctx, target.Kube, target.Namespace, o.Selector, o.Name, details, logger).
		WithFrequency(o.ReportFrequency)
}

// checkCanceled returns a cancellation error when the task was canceled.
func checkCanceled(target *action.DeploymentTarget, details events.EventDetails) error {
	if target.Canceled() {
		return engineerr.NewTaskCancellationRequested(details)
	}
	return nil
}

// isHelmDeployFailure reports whether err is a plain Helm failure rather than
// a cancellation or a timeout, which keep their own tag.
func isHelmDeployFailure(err error) bool {
	return engineerr.HasTag(err, engineerr.TagHelmChartsDeployError)
}

// pauseWorkloads scales the workloads matching selector to zero and waits for
// their pods to terminate.
func pauseWorkloads(ctx context.Context, target *action.DeploymentTarget, details events.EventDetails, selector string, statefulSets bool, interval, timeout time.Duration) error {
	if err := checkCanceled(target, details); err != nil {
		return err
	}

	var (
		scaled []string
		err    error
	)
	if statefulSets {
		scaled, err = target.Kube.ScaleStatefulSets(ctx, target.Namespace, selector, 0)
	} else {
		scaled, err = target.Kube.ScaleDeployments(ctx, target.Namespace, selector, 0)
	}
	if err != nil {
		return engineerr.NewCannotScaleWorkload(details, selector, 0, err)
	}
	target.Log(logging.Info(details, fmt.Sprintf("⏸️ Scaled down %d workload(s) matching %s", len(scaled), selector)))

	if err := target.Kube.WaitForPodsGone(ctx, target.Namespace, selector, interval, timeout); err != nil {
		return engineerr.NewK8sPodsNotTerminated(details, selector, timeout)
	}
	return nil
}
