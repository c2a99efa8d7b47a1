package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/shadracnicholas/engine/internal/deployment"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/k8s"
	"github.com/shadracnicholas/engine/internal/logging"
)

func testDetails() events.EventDetails {
	return events.NewEventDetails(
		events.KindHetzner, "org", "cluster", "exec",
		events.EnvironmentStage(events.EnvironmentDeploy),
		events.NewTransmitter(events.TransmitterApplication, "app-1", "api"),
	)
}

func TestLogReporter_Narration(t *testing.T) {
	t.Parallel()

	rec := &logging.Recorder{}
	r := NewLogReporter[string]("api", testDetails(), rec)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	state := r.NewState()
	r.DeploymentBeforeStart(state)
	now = now.Add(20 * time.Second)
	r.DeploymentInProgress(state)
	now = now.Add(10 * time.Second)
	r.DeploymentTerminated("ok", nil, state)

	assert.Equal(t, 1, state.Ticks)
	assert.Equal(t, []string{
		"🚀 Deployment of api is starting",
		"⏳ Deployment of api in progress (20s elapsed)",
		"✅ Deployment of api succeeded in 30s",
	}, rec.Messages())
}

func TestLogReporter_TerminatedWithEngineError(t *testing.T) {
	t.Parallel()

	rec := &logging.Recorder{}
	r := NewLogReporter[string]("api", testDetails(), rec)
	state := r.NewState()
	r.DeploymentBeforeStart(state)

	err := engineerr.NewHelmDeployTimeout(testDetails(), "app", time.Minute)
	r.DeploymentTerminated("", err, state)

	evts := rec.Events()
	last := evts[len(evts)-1]
	assert.Equal(t, logging.EventError, last.Type)
	assert.Same(t, err, last.Err)
	assert.Contains(t, last.Message, "Helm timed out")
	assert.Contains(t, last.Message, err.Hint())
}

func TestLogReporter_TerminatedWithPlainError(t *testing.T) {
	t.Parallel()

	rec := &logging.Recorder{}
	r := NewLogReporter[string]("api", testDetails(), rec)
	r.DeploymentTerminated("", errors.New("exit status 1"), r.NewState())

	evts := rec.Events()
	require.Len(t, evts, 1)
	require.NotNil(t, evts[0].Err)
	assert.Equal(t, engineerr.TagUnknown, evts[0].Err.Tag())
}

func TestLogReporter_WithExecutor(t *testing.T) {
	t.Parallel()

	rec := &logging.Recorder{}
	r := NewLogReporter[string]("api", testDetails(), rec).WithFrequency(20 * time.Millisecond)

	task := deployment.RunOnly(func(_ context.Context, _ logging.Logger) (string, error) {
		time.Sleep(70 * time.Millisecond)
		return "done", nil
	})
	require.NoError(t, deployment.ExecuteLongDeployment[struct{}, string, *LogState](context.Background(), r, task))

	msgs := rec.Messages()
	require.GreaterOrEqual(t, len(msgs), 3)
	assert.Equal(t, "🚀 Deployment of api is starting", msgs[0])
	assert.Contains(t, msgs[len(msgs)-1], "✅ Deployment of api succeeded")
}

func TestKubeReporter_InProgressCountsPods(t *testing.T) {
	t.Parallel()

	labels := map[string]string{"app": "api"}
	cs := fake.NewSimpleClientset(
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "api-0", Namespace: "p-e", Labels: labels},
			Status: corev1.PodStatus{
				Phase:      corev1.PodRunning,
				Conditions: []corev1.PodCondition{{Type: corev1.PodReady, Status: corev1.ConditionTrue}},
			},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "api-1", Namespace: "p-e", Labels: labels},
			Status: corev1.PodStatus{
				Phase: corev1.PodPending,
				ContainerStatuses: []corev1.ContainerStatus{{
					State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"}},
				}},
			},
		},
	)

	rec := &logging.Recorder{}
	r := NewKubeReporter[string](context.Background(), k8s.NewForClientset(cs), "p-e", "app=api", "api", testDetails(), rec)
	state := r.NewState()
	r.DeploymentInProgress(state)

	assert.Equal(t, 1, state.Ticks)
	assert.Equal(t, map[corev1.PodPhase]int{corev1.PodRunning: 1, corev1.PodPending: 1}, state.Phases)
	assert.Equal(t, 1, state.Ready)
	assert.Equal(t, "ImagePullBackOff", state.LastReason)

	evts := rec.Events()
	require.Len(t, evts, 1)
	assert.Equal(t, logging.EventWarning, evts[0].Type)
	assert.Equal(t, "⏳ Deployment of api in progress: 1 Pending, 1 Running, 1/2 ready (waiting: ImagePullBackOff)", evts[0].Message)
}

func TestKubeReporter_NoPods(t *testing.T) {
	t.Parallel()

	rec := &logging.Recorder{}
	r := NewKubeReporter[string](context.Background(), k8s.NewForClientset(fake.NewSimpleClientset()), "p-e", "app=api", "api", testDetails(), rec)
	r.DeploymentInProgress(r.NewState())

	assert.Equal(t, []string{"⏳ Deployment of api in progress: no pods yet"}, rec.Messages())
}

func TestKubeReporter_DefaultFrequency(t *testing.T) {
	t.Parallel()

	r := NewKubeReporter[string](context.Background(), nil, "p-e", "", "api", testDetails(), &logging.Recorder{})
	assert.Equal(t, deployment.DefaultReportFrequency, r.ReportFrequency())
	assert.Equal(t, time.Second, r.WithFrequency(time.Second).ReportFrequency())
}
