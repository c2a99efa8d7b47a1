package k8s

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/shadracnicholas/engine/internal/util/ptr"
)

func deployment(name, image string, replicas int32, labels map[string]string) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "p-e", Labels: labels},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To[int32](replicas),
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{Containers: []corev1.Container{{Name: "app", Image: image}}},
			},
		},
	}
}

func pod(name string, labels map[string]string, phase corev1.PodPhase, ready bool) *corev1.Pod {
	status := corev1.ConditionFalse
	if ready {
		status = corev1.ConditionTrue
	}
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "p-e", Labels: labels},
		Status: corev1.PodStatus{
			Phase:      phase,
			Conditions: []corev1.PodCondition{{Type: corev1.PodReady, Status: status}},
		},
	}
}

func TestNewClientFromBytes_InvalidKubeconfig(t *testing.T) {
	t.Parallel()

	_, err := NewClientFromBytes([]byte("not: [valid"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build kubeconfig from bytes")
}

func TestNewClientFromBytes_Valid(t *testing.T) {
	t.Parallel()

	kubeconfig := []byte(`apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://127.0.0.1:6443
  name: test
contexts:
- context:
    cluster: test
    user: test
  name: test
current-context: test
users:
- name: test
  user:
    token: abc
`)
	c, err := NewClientFromBytes(kubeconfig)
	require.NoError(t, err)
	assert.NotNil(t, c.Clientset())
}

func TestScaleDeployments(t *testing.T) {
	t.Parallel()

	app := map[string]string{"app": "api"}
	cs := fake.NewSimpleClientset(
		deployment("api", "api:1", 2, app),
		deployment("worker", "worker:1", 1, map[string]string{"app": "worker"}),
	)
	c := NewForClientset(cs)

	scaled, err := c.ScaleDeployments(context.Background(), "p-e", "app=api", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, scaled)

	got, err := cs.AppsV1().Deployments("p-e").Get(context.Background(), "api", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(0), *got.Spec.Replicas)

	other, err := cs.AppsV1().Deployments("p-e").Get(context.Background(), "worker", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), *other.Spec.Replicas)

	down, err := c.IsScaledDown(context.Background(), "p-e", "app=api")
	require.NoError(t, err)
	assert.True(t, down)
}

func TestScaleStatefulSets(t *testing.T) {
	t.Parallel()

	cs := fake.NewSimpleClientset(&appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{Name: "pg", Namespace: "p-e", Labels: map[string]string{"db": "pg"}},
		Spec:       appsv1.StatefulSetSpec{Replicas: ptr.To[int32](1)},
	})
	c := NewForClientset(cs)

	scaled, err := c.ScaleStatefulSets(context.Background(), "p-e", "db=pg", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"pg"}, scaled)

	got, err := cs.AppsV1().StatefulSets("p-e").Get(context.Background(), "pg", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(0), *got.Spec.Replicas)
}

func TestIsScaledDown_NoDeployment(t *testing.T) {
	t.Parallel()

	c := NewForClientset(fake.NewSimpleClientset())
	down, err := c.IsScaledDown(context.Background(), "p-e", "app=api")
	require.NoError(t, err)
	assert.False(t, down)
}

func TestCurrentImage(t *testing.T) {
	t.Parallel()

	c := NewForClientset(fake.NewSimpleClientset(deployment("api", "registry/api:42", 1, nil)))

	image, err := c.CurrentImage(context.Background(), "p-e", "api")
	require.NoError(t, err)
	assert.Equal(t, "registry/api:42", image)

	_, err = c.CurrentImage(context.Background(), "p-e", "missing")
	assert.True(t, errors.Is(err, ErrDeploymentNotFound))
}

func TestDeleteService_MissingIsNotAnError(t *testing.T) {
	t.Parallel()

	cs := fake.NewSimpleClientset(&corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: "api-pending", Namespace: "p-e"},
	})
	c := NewForClientset(cs)

	require.NoError(t, c.DeleteService(context.Background(), "p-e", "api-pending"))
	require.NoError(t, c.DeleteService(context.Background(), "p-e", "api-pending"))

	list, err := cs.CoreV1().Services("p-e").List(context.Background(), metav1.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestEnsureNamespace_Idempotent(t *testing.T) {
	t.Parallel()

	cs := fake.NewSimpleClientset()
	c := NewForClientset(cs)

	require.NoError(t, c.EnsureNamespace(context.Background(), "p-e"))
	require.NoError(t, c.EnsureNamespace(context.Background(), "p-e"))

	_, err := cs.CoreV1().Namespaces().Get(context.Background(), "p-e", metav1.GetOptions{})
	assert.NoError(t, err)
}

func TestWaitForPodsGone(t *testing.T) {
	t.Parallel()

	c := NewForClientset(fake.NewSimpleClientset())
	err := c.WaitForPodsGone(context.Background(), "p-e", "app=api", 10*time.Millisecond, time.Second)
	assert.NoError(t, err)
}

func TestWaitForPodsGone_Timeout(t *testing.T) {
	t.Parallel()

	c := NewForClientset(fake.NewSimpleClientset(pod("api-0", map[string]string{"app": "api"}, corev1.PodRunning, true)))
	err := c.WaitForPodsGone(context.Background(), "p-e", "app=api", 10*time.Millisecond, 50*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWaitTimeout)
}

func TestServerVersion(t *testing.T) {
	t.Parallel()

	c := NewForClientset(fake.NewSimpleClientset())
	_, err := c.ServerVersion()
	assert.NoError(t, err)
}

func TestIsPodReady(t *testing.T) {
	t.Parallel()

	labels := map[string]string{"app": "api"}
	assert.True(t, IsPodReady(pod("api-0", labels, corev1.PodRunning, true)))
	assert.False(t, IsPodReady(pod("api-0", labels, corev1.PodRunning, false)))
	assert.False(t, IsPodReady(pod("api-0", labels, corev1.PodPending, true)))
}

func TestWaitingReason(t *testing.T) {
	t.Parallel()

	p := &corev1.Pod{Status: corev1.PodStatus{ContainerStatuses: []corev1.ContainerStatus{
		{State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
		{State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"}}},
	}}}
	assert.Equal(t, "ImagePullBackOff", WaitingReason(p))
	assert.Empty(t, WaitingReason(&corev1.Pod{}))
}
