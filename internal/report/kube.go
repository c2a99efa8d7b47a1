package report

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/shadracnicholas/engine/internal/deployment"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/k8s"
	"github.com/shadracnicholas/engine/internal/logging"
)

const podListTimeout = 5 * time.Second

// Waiting reasons surfaced as warnings.
var alarmingReasons = []string{"CrashLoopBackOff", "ImagePullBackOff", "ErrImagePull", "CreateContainerConfigError"}

// KubeState is the state of a KubeReporter deployment.
type KubeState struct {
	Start      time.Time
	Ticks      int
	Phases     map[corev1.PodPhase]int
	Ready      int
	LastReason string
}

// KubeReporter narrates a deployment with the status of its pods.
type KubeReporter[R any] struct {
	ctx       context.Context
	kube      *k8s.Client
	namespace string
	selector  string
	subject   string
	details   events.EventDetails
	logger    logging.Logger
	frequency time.Duration
}

// NewKubeReporter creates a KubeReporter watching the pods matching selector.
func NewKubeReporter[R any](ctx context.Context, kube *k8s.Client, namespace, selector, subject string, details events.EventDetails, logger logging.Logger) *KubeReporter[R] {
	return &KubeReporter[R]{
		ctx:       ctx,
		kube:      kube,
		namespace: namespace,
		selector:  selector,
		subject:   subject,
		details:   details,
		logger:    logger,
		frequency: deployment.DefaultReportFrequency,
	}
}

// WithFrequency sets the progress cadence.
func (r *KubeReporter[R]) WithFrequency(d time.Duration) *KubeReporter[R] {
	r.frequency = d
	return r
}

// Logger implements deployment.Reporter.
func (r *KubeReporter[R]) Logger() logging.Logger { return r.logger }

// ReportFrequency implements deployment.Reporter.
func (r *KubeReporter[R]) ReportFrequency() time.Duration { return r.frequency }

// NewState implements deployment.Reporter.
func (r *KubeReporter[R]) NewState() *KubeState {
	return &KubeState{Phases: map[corev1.PodPhase]int{}}
}

// DeploymentBeforeStart implements deployment.Reporter.
func (r *KubeReporter[R]) DeploymentBeforeStart(state *KubeState) {
	state.Start = time.Now()
	r.logger.Log(logging.Info(r.details, fmt.Sprintf("🚀 Deployment of %s is starting", r.subject)))
}

// DeploymentInProgress implements deployment.Reporter.
func (r *KubeReporter[R]) DeploymentInProgress(state *KubeState) {
	state.Ticks++

	ctx, cancel := context.WithTimeout(r.ctx, podListTimeout)
	defer cancel()
	pods, err := r.kube.GetPods(ctx, r.namespace, r.selector)
	if err != nil {
		r.logger.Log(logging.Warning(r.details, fmt.Sprintf("⏳ Deployment of %s in progress, pod status unavailable: %v", r.subject, err)))
		return
	}

	state.Phases = map[corev1.PodPhase]int{}
	state.Ready = 0
	state.LastReason = ""
	for i := range pods {
		state.Phases[pods[i].Status.Phase]++
		if k8s.IsPodReady(&pods[i]) {
			state.Ready++
		}
		if reason := k8s.WaitingReason(&pods[i]); reason != "" {
			state.LastReason = reason
		}
	}

	msg := fmt.Sprintf("⏳ Deployment of %s in progress: %s", r.subject, formatPhases(state.Phases))
	if len(pods) > 0 {
		msg += fmt.Sprintf(", %d/%d ready", state.Ready, len(pods))
	}
	if state.LastReason == "" {
		r.logger.Log(logging.Info(r.details, msg))
		return
	}

	msg += fmt.Sprintf(" (waiting: %s)", state.LastReason)
	if slices.Contains(alarmingReasons, state.LastReason) {
		r.logger.Log(logging.Warning(r.details, msg))
		return
	}
	r.logger.Log(logging.Info(r.details, msg))
}

// DeploymentTerminated implements deployment.Reporter.
func (r *KubeReporter[R]) DeploymentTerminated(_ R, err error, state *KubeState) {
	logTermination(r.logger, r.details, r.subject, time.Since(state.Start).Round(time.Second), err)
}

func formatPhases(phases map[corev1.PodPhase]int) string {
	if len(phases) == 0 {
		return "no pods yet"
	}

	names := make([]string, 0, len(phases))
	for phase := range phases {
		names = append(names, string(phase))
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%d %s", phases[corev1.PodPhase(name)], name))
	}
	return strings.Join(parts, ", ")
}
