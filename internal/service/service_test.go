package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/shadracnicholas/engine/internal/action"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/helm"
	"github.com/shadracnicholas/engine/internal/infra/fakes"
	"github.com/shadracnicholas/engine/internal/k8s"
	"github.com/shadracnicholas/engine/internal/logging"
	"github.com/shadracnicholas/engine/internal/util/ptr"
)

const ns = "proj-env"

func newTarget(releases *fakes.FakeReleaseManager, objects ...runtime.Object) (*action.DeploymentTarget, kubernetes.Interface, *logging.Recorder) {
	cs := fake.NewSimpleClientset(objects...)
	rec := &logging.Recorder{}
	return &action.DeploymentTarget{
		Kube:      k8s.NewForClientset(cs),
		Helm:      releases,
		Namespace: ns,
		Details: events.NewEventDetails(
			events.KindHetzner, "org", "cluster", "exec",
			events.EnvironmentStage(events.EnvironmentDeploy),
			events.NewTransmitter(events.TransmitterTaskManager, "exec", "environment"),
		),
		Logger: rec,
	}, cs, rec
}

func testOptions(name string) Options {
	return Options{
		Name:            name,
		Chart:           helm.Chart{Path: "./charts/" + name},
		PollInterval:    5 * time.Millisecond,
		PauseTimeout:    100 * time.Millisecond,
		DeleteTimeout:   100 * time.Millisecond,
		ReportFrequency: time.Hour,
	}
}

func apiDeployment(image string, replicas int32) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "api",
			Namespace: ns,
			Labels:    map[string]string{"app.kubernetes.io/instance": "api"},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To[int32](replicas),
			Template: corev1.PodTemplateSpec{Spec: corev1.PodSpec{
				Containers: []corev1.Container{{Name: "api", Image: image}},
			}},
		},
	}
}

type fakeImages struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (f *fakeImages) RemoveImage(_ context.Context, image string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, image)
	return f.err
}

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	o := Options{Name: "api"}.withDefaults()
	assert.Equal(t, "api", o.Chart.ReleaseName)
	assert.Equal(t, "app.kubernetes.io/instance=api", o.Selector)
	assert.Equal(t, action.DefaultHelmTimeout, o.HelmTimeout)
	assert.Equal(t, DefaultPauseTimeout, o.PauseTimeout)
	assert.Equal(t, 10*time.Second, o.ReportFrequency)
}

func TestContainer_OnCreate(t *testing.T) {
	t.Parallel()

	releases := &fakes.FakeReleaseManager{}
	pending := &corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: "api-pending", Namespace: ns}}
	target, cs, rec := newTarget(releases, apiDeployment("registry/api:1", 0), pending)
	images := &fakeImages{}

	c := NewContainer("app-1", "registry/api:2", testOptions("api"))
	c.Images = images

	require.NoError(t, c.OnCreate(context.Background(), target))

	assert.Equal(t, []string{"api"}, releases.Installs())

	d, err := cs.AppsV1().Deployments(ns).Get(context.Background(), "api", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), *d.Spec.Replicas, "a paused deployment is scaled back up")

	_, err = cs.CoreV1().Services(ns).Get(context.Background(), "api-pending", metav1.GetOptions{})
	assert.Error(t, err, "the pending service is removed")

	assert.Equal(t, []string{"registry/api:1"}, images.removed)
	assert.Contains(t, rec.Messages(), "🚀 Deployment of api is starting")
}

func TestContainer_OnCreateFirstDeploymentKeepsCache(t *testing.T) {
	t.Parallel()

	releases := &fakes.FakeReleaseManager{}
	target, _, _ := newTarget(releases)
	images := &fakeImages{}

	c := NewContainer("app-1", "registry/api:1", testOptions("api"))
	c.Images = images

	require.NoError(t, c.OnCreate(context.Background(), target))
	assert.Empty(t, images.removed)
}

func TestContainer_OnCreateImageRemovalFailureOnlyWarns(t *testing.T) {
	t.Parallel()

	releases := &fakes.FakeReleaseManager{}
	target, _, rec := newTarget(releases, apiDeployment("registry/api:1", 1))

	c := NewContainer("app-1", "registry/api:2", testOptions("api"))
	c.Images = &fakeImages{err: errors.New("no such image")}

	require.NoError(t, c.OnCreate(context.Background(), target))

	var warnings int
	for _, e := range rec.Events() {
		if e.Type == logging.EventWarning {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestContainer_OnCreateHelmFailure(t *testing.T) {
	t.Parallel()

	releases := &fakes.FakeReleaseManager{InstallErr: errors.New("readiness probe failed")}
	target, _, _ := newTarget(releases)
	images := &fakeImages{}

	c := NewContainer("app-1", "registry/api:2", testOptions("api"))
	c.Images = images

	err := c.OnCreate(context.Background(), target)

	engineErr, ok := engineerr.As(err)
	require.True(t, ok)
	assert.Equal(t, engineerr.TagClientServiceFailedToStart, engineErr.Tag())
	assert.Equal(t, events.EnvironmentStage(events.EnvironmentDeployError), engineErr.EventDetails().Stage())
	assert.Empty(t, images.removed)
}

func TestContainer_OnCreateCanceledBeforeStart(t *testing.T) {
	t.Parallel()

	releases := &fakes.FakeReleaseManager{}
	target, _, _ := newTarget(releases)
	target.IsTaskCanceled = func() bool { return true }

	err := NewContainer("app-1", "registry/api:2", testOptions("api")).OnCreate(context.Background(), target)

	assert.True(t, engineerr.HasTag(err, engineerr.TagTaskCancellationRequested))
	assert.Empty(t, releases.Installs())
}

func TestContainer_OnPause(t *testing.T) {
	t.Parallel()

	target, cs, _ := newTarget(&fakes.FakeReleaseManager{}, apiDeployment("registry/api:1", 2))

	require.NoError(t, NewContainer("app-1", "", testOptions("api")).OnPause(context.Background(), target))

	d, err := cs.AppsV1().Deployments(ns).Get(context.Background(), "api", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(0), *d.Spec.Replicas)
}

func TestContainer_OnPausePodsNotTerminated(t *testing.T) {
	t.Parallel()

	pod := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{
		Name: "api-0", Namespace: ns,
		Labels: map[string]string{"app.kubernetes.io/instance": "api"},
	}}
	target, _, _ := newTarget(&fakes.FakeReleaseManager{}, apiDeployment("registry/api:1", 2), pod)

	err := NewContainer("app-1", "", testOptions("api")).OnPause(context.Background(), target)

	engineErr, ok := engineerr.As(err)
	require.True(t, ok)
	assert.Equal(t, engineerr.TagK8sPodsNotTerminated, engineErr.Tag())
	assert.Equal(t, events.EnvironmentStage(events.EnvironmentPauseError), engineErr.EventDetails().Stage())
}

func TestContainer_OnDelete(t *testing.T) {
	t.Parallel()

	releases := &fakes.FakeReleaseManager{}
	target, _, _ := newTarget(releases)

	require.NoError(t, NewContainer("app-1", "", testOptions("api")).OnDelete(context.Background(), target))
	assert.Equal(t, []string{"api"}, releases.Uninstalls())
}

func TestDatabase_OnCreateFailure(t *testing.T) {
	t.Parallel()

	releases := &fakes.FakeReleaseManager{InstallErr: errors.New("pvc pending")}
	target, _, _ := newTarget(releases)

	err := NewDatabase("db-1", testOptions("pg")).OnCreate(context.Background(), target)

	engineErr, ok := engineerr.As(err)
	require.True(t, ok)
	assert.Equal(t, engineerr.TagDatabaseFailedToStartAfterSeveralRetries, engineErr.Tag())
	assert.Equal(t, events.TransmitterDatabase, engineErr.EventDetails().Transmitter().Kind)
}

func TestDatabase_OnCreateTimeoutKeepsTag(t *testing.T) {
	t.Parallel()

	releases := &fakes.FakeReleaseManager{InstallFunc: func(ctx context.Context, _ helm.Chart) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	target, _, _ := newTarget(releases)
	opts := testOptions("pg")
	opts.HelmTimeout = 20 * time.Millisecond

	err := NewDatabase("db-1", opts).OnCreate(context.Background(), target)

	assert.True(t, engineerr.HasTag(err, engineerr.TagHelmDeployTimeout))
}

func TestDatabase_OnPauseScalesStatefulSets(t *testing.T) {
	t.Parallel()

	sts := &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{Name: "pg", Namespace: ns, Labels: map[string]string{"app.kubernetes.io/instance": "pg"}},
		Spec:       appsv1.StatefulSetSpec{Replicas: ptr.To[int32](1)},
	}
	target, cs, _ := newTarget(&fakes.FakeReleaseManager{}, sts)

	require.NoError(t, NewDatabase("db-1", testOptions("pg")).OnPause(context.Background(), target))

	got, err := cs.AppsV1().StatefulSets(ns).Get(context.Background(), "pg", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(0), *got.Spec.Replicas)
}

type fakeResolver map[string]error

func (f fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if err := f[host]; err != nil {
		return nil, err
	}
	return []string{"203.0.113.10"}, nil
}

func TestRouter_OnCreateChecksDomains(t *testing.T) {
	t.Parallel()

	releases := &fakes.FakeReleaseManager{}
	target, _, rec := newTarget(releases)

	r := NewRouter("router-1", []string{"app.example.com", "missing.example.com"}, testOptions("router"))
	r.Resolver = fakeResolver{"missing.example.com": errors.New("no such host")}

	require.NoError(t, r.OnCreate(context.Background(), target))

	assert.Equal(t, []string{"router"}, releases.Installs())
	msgs := rec.Messages()
	assert.Contains(t, msgs, "Custom domain app.example.com resolves")
	assert.Contains(t, msgs, "Custom domain missing.example.com does not resolve yet: no such host")
}

func TestRouter_OnCreateFailure(t *testing.T) {
	t.Parallel()

	releases := &fakes.FakeReleaseManager{InstallErr: errors.New("ingress class missing")}
	target, _, rec := newTarget(releases)

	r := NewRouter("router-1", []string{"app.example.com"}, testOptions("router"))
	r.Resolver = fakeResolver{}

	err := r.OnCreate(context.Background(), target)

	assert.True(t, engineerr.HasTag(err, engineerr.TagRouterFailedToDeploy))
	assert.NotContains(t, rec.Messages(), "Custom domain app.example.com resolves")
}

func TestServices_ImplementDeploymentAction(t *testing.T) {
	t.Parallel()

	var _ action.DeploymentAction = &Container{}
	var _ action.DeploymentAction = &Database{}
	var _ action.DeploymentAction = &Router{}
}
