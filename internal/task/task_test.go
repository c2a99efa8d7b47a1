package task

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/shadracnicholas/engine/internal/action"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/infra"
	"github.com/shadracnicholas/engine/internal/infra/fakes"
	"github.com/shadracnicholas/engine/internal/k8s"
	"github.com/shadracnicholas/engine/internal/logging"
	"github.com/shadracnicholas/engine/internal/transaction"
)

func infraDetails() events.EventDetails {
	return events.NewEventDetails(
		events.KindHetzner, "org", "c1", "exec-1",
		events.InfrastructureStage(events.InfrastructureLoadConfiguration),
		events.NewTransmitter(events.TransmitterKubernetes, "c1", "prod"),
	)
}

type fakeUploader struct {
	mu      sync.Mutex
	err     error
	uploads int
	size    int
}

func (f *fakeUploader) Upload(_ context.Context, _ events.EventDetails, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	f.size = len(data)
	return f.err
}

func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plan.log"), []byte("ok"), 0o644))
	return dir
}

func newInfraTask(kube *fakes.FakeKubernetes, a InfraAction) (*InfrastructureTask, *logging.Recorder, *fakeUploader) {
	rec := &logging.Recorder{}
	up := &fakeUploader{}
	return &InfrastructureTask{
		Action: a,
		Infra: &infra.Context{
			CloudProvider: fakes.NewFakeCloudProvider(events.KindHetzner),
			Kubernetes:    kube,
		},
		Details: infraDetails(),
		Logger:  rec,
		Archive: up,
	}, rec, up
}

func TestInfrastructureTask_CreateSuccess(t *testing.T) {
	t.Parallel()

	kube := fakes.NewFakeKubernetes("c1")
	task, rec, up := newInfraTask(kube, InfraCreate)
	task.WorkspaceDir = workspace(t)

	res := task.Run(context.Background())

	assert.Equal(t, transaction.StatusOk, res.Status)
	assert.Equal(t, []string{"OnCreate"}, kube.CallLog())
	assert.Equal(t, []string{"Kubernetes cluster successfully Created"}, rec.Messages())
	assert.Equal(t, events.InfrastructureStage(events.InfrastructureCreated), rec.Events()[0].Details.Stage())
	assert.Equal(t, 1, up.uploads)
	assert.Positive(t, up.size)
}

func TestInfrastructureTask_FailureIsRestaged(t *testing.T) {
	t.Parallel()

	kube := fakes.NewFakeKubernetes("c1")
	kube.Errors["OnPause"] = errors.New("poweroff failed")
	task, rec, _ := newInfraTask(kube, InfraPause)

	res := task.Run(context.Background())

	require.Equal(t, transaction.StatusError, res.Status)
	assert.Equal(t, []string{"OnPause", "OnPauseError"}, kube.CallLog())

	evts := rec.Events()
	require.Len(t, evts, 1)
	assert.Equal(t, logging.EventError, evts[0].Type)
	assert.Equal(t, "Kubernetes cluster failure PauseError", evts[0].Message)
	assert.Equal(t, events.InfrastructureStage(events.InfrastructurePauseError), evts[0].Details.Stage())
}

func TestInfrastructureTask_InvalidCloudProvider(t *testing.T) {
	t.Parallel()

	kube := fakes.NewFakeKubernetes("c1")
	task, rec, _ := newInfraTask(kube, InfraDelete)
	cloud := fakes.NewFakeCloudProvider(events.KindHetzner)
	cloud.Err = errors.New("401")
	task.Infra.CloudProvider = cloud

	res := task.Run(context.Background())

	require.Equal(t, transaction.StatusError, res.Status)
	assert.Equal(t, engineerr.TagCloudProviderClientInvalidCredentials, res.Err.Tag())
	assert.Empty(t, kube.CallLog())
	require.Len(t, rec.Events(), 1)
	assert.Equal(t, events.InfrastructureStage(events.InfrastructureDeleteError), rec.Events()[0].Details.Stage())
}

func TestInfrastructureTask_ArchiveSkipped(t *testing.T) {
	t.Parallel()

	task, _, up := newInfraTask(fakes.NewFakeKubernetes("c1"), InfraCreate)
	task.WorkspaceDir = workspace(t)
	task.SkipArchive = true

	task.Run(context.Background())

	assert.Zero(t, up.uploads)
}

func TestInfrastructureTask_ArchiveFailureOnlyLogged(t *testing.T) {
	t.Parallel()

	task, rec, up := newInfraTask(fakes.NewFakeKubernetes("c1"), InfraCreate)
	task.WorkspaceDir = workspace(t)
	up.err = errors.New("bucket gone")

	res := task.Run(context.Background())

	assert.Equal(t, transaction.StatusOk, res.Status)
	evts := rec.Events()
	require.Len(t, evts, 2)
	assert.Equal(t, logging.EventError, evts[1].Type)
	assert.Equal(t, "Error while uploading the workspace archive.", evts[1].Message)
}

func TestInfrastructureTask_MissingWorkspace(t *testing.T) {
	t.Parallel()

	task, rec, up := newInfraTask(fakes.NewFakeKubernetes("c1"), InfraCreate)
	task.WorkspaceDir = filepath.Join(t.TempDir(), "missing")

	task.Run(context.Background())

	assert.Zero(t, up.uploads)
	evts := rec.Events()
	require.Len(t, evts, 2)
	assert.Equal(t, engineerr.TagCannotBuildWorkspaceArchive, evts[1].Err.Tag())
}

func TestInfraAction_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "create", InfraCreate.String())
	assert.Equal(t, "pause", InfraPause.String())
	assert.Equal(t, "delete", InfraDelete.String())
	assert.Equal(t, "InfraAction(9)", InfraAction(9).String())
}

// recordingService records the actions it receives.
type recordingService struct {
	name  string
	log   *callLog
	err   error
	delay time.Duration
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, s)
}

func (l *callLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (s *recordingService) record(ctx context.Context, target *action.DeploymentTarget, what string) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.log.add(what + ":" + s.name + "@" + target.Namespace)
	return s.err
}

func (s *recordingService) OnCreate(ctx context.Context, target *action.DeploymentTarget) error {
	return s.record(ctx, target, "create")
}

func (s *recordingService) OnPause(ctx context.Context, target *action.DeploymentTarget) error {
	return s.record(ctx, target, "pause")
}

func (s *recordingService) OnDelete(ctx context.Context, target *action.DeploymentTarget) error {
	return s.record(ctx, target, "delete")
}

func envTarget(t *testing.T, objects ...*corev1.Namespace) (*action.DeploymentTarget, *fake.Clientset, *logging.Recorder) {
	t.Helper()
	cs := fake.NewSimpleClientset()
	for _, ns := range objects {
		_, err := cs.CoreV1().Namespaces().Create(context.Background(), ns, metav1.CreateOptions{})
		require.NoError(t, err)
	}
	rec := &logging.Recorder{}
	return &action.DeploymentTarget{
		Kube:   k8s.NewForClientset(cs),
		Helm:   &fakes.FakeReleaseManager{},
		Logger: rec,
		Details: events.NewEventDetails(
			events.KindHetzner, "org", "c1", "exec-1",
			events.EnvironmentStage(events.EnvironmentDeploy),
			events.NewTransmitter(events.TransmitterEnvironment, "env", "environment"),
		),
	}, cs, rec
}

func TestEnvironmentTask_DeployOrder(t *testing.T) {
	t.Parallel()

	target, cs, rec := envTarget(t)
	log := &callLog{}
	task := &EnvironmentTask{
		Action:             action.Create,
		ProjectShortID:     "proj",
		EnvironmentShortID: "env",
		Databases:          []action.DeploymentAction{&recordingService{name: "pg", log: log, delay: 20 * time.Millisecond}},
		Containers: []action.DeploymentAction{
			&recordingService{name: "api", log: log},
			&recordingService{name: "worker", log: log},
		},
		Routers: []action.DeploymentAction{&recordingService{name: "edge", log: log}},
		Target:  target,
	}

	require.NoError(t, task.Run(context.Background()))

	calls := log.get()
	require.Len(t, calls, 4)
	assert.Equal(t, "create:pg@proj-env", calls[0])
	assert.ElementsMatch(t, []string{"create:api@proj-env", "create:worker@proj-env"}, calls[1:3])
	assert.Equal(t, "create:edge@proj-env", calls[3])

	_, err := cs.CoreV1().Namespaces().Get(context.Background(), "proj-env", metav1.GetOptions{})
	require.NoError(t, err)

	msgs := rec.Messages()
	assert.Equal(t, "Environment proj-env successfully Deployed", msgs[len(msgs)-1])
	assert.Empty(t, target.Namespace, "the caller's target is not modified")
}

func TestEnvironmentTask_DeleteReversesOrder(t *testing.T) {
	t.Parallel()

	target, _, _ := envTarget(t)
	log := &callLog{}
	task := &EnvironmentTask{
		Action:             action.Delete,
		ProjectShortID:     "proj",
		EnvironmentShortID: "env",
		Databases:          []action.DeploymentAction{&recordingService{name: "pg", log: log}},
		Containers:         []action.DeploymentAction{&recordingService{name: "api", log: log}},
		Routers:            []action.DeploymentAction{&recordingService{name: "edge", log: log}},
		Target:             target,
	}

	require.NoError(t, task.Run(context.Background()))
	assert.Equal(t, []string{"delete:edge@proj-env", "delete:api@proj-env", "delete:pg@proj-env"}, log.get())
}

func TestEnvironmentTask_FailureStopsLaterGroups(t *testing.T) {
	t.Parallel()

	target, _, rec := envTarget(t)
	log := &callLog{}
	dbErr := engineerr.NewDatabaseFailedToStartAfterSeveralRetries(target.Details, "pg", errors.New("crash"))
	task := &EnvironmentTask{
		Action:             action.Create,
		ProjectShortID:     "proj",
		EnvironmentShortID: "env",
		Databases:          []action.DeploymentAction{&recordingService{name: "pg", log: log, err: dbErr}},
		Containers:         []action.DeploymentAction{&recordingService{name: "api", log: log}},
		Target:             target,
	}

	err := task.Run(context.Background())

	engineErr, ok := engineerr.As(err)
	require.True(t, ok)
	assert.Equal(t, engineerr.TagDatabaseFailedToStartAfterSeveralRetries, engineErr.Tag())
	assert.Equal(t, events.EnvironmentStage(events.EnvironmentDeployError), engineErr.EventDetails().Stage())
	assert.Equal(t, []string{"create:pg@proj-env"}, log.get())

	evts := rec.Events()
	assert.Equal(t, logging.EventError, evts[len(evts)-1].Type)
}

func TestEnvironmentTask_CanceledBetweenGroups(t *testing.T) {
	t.Parallel()

	target, _, _ := envTarget(t)
	log := &callLog{}
	var canceled bool
	var mu sync.Mutex
	target.IsTaskCanceled = func() bool {
		mu.Lock()
		defer mu.Unlock()
		return canceled
	}
	db := &recordingService{name: "pg", log: log}
	task := &EnvironmentTask{
		Action:             action.Pause,
		ProjectShortID:     "proj",
		EnvironmentShortID: "env",
		Routers:            []action.DeploymentAction{&cancelingService{recordingService: recordingService{name: "edge", log: log}, cancel: func() { mu.Lock(); canceled = true; mu.Unlock() }}},
		Databases:          []action.DeploymentAction{db},
		Target:             target,
	}

	err := task.Run(context.Background())

	engineErr, ok := engineerr.As(err)
	require.True(t, ok)
	assert.Equal(t, engineerr.TagTaskCancellationRequested, engineErr.Tag())
	assert.Equal(t, events.EnvironmentStage(events.EnvironmentCancel), engineErr.EventDetails().Stage())
	assert.Equal(t, []string{"pause:edge@proj-env"}, log.get())
}

type cancelingService struct {
	recordingService
	cancel func()
}

func (s *cancelingService) OnPause(ctx context.Context, target *action.DeploymentTarget) error {
	err := s.recordingService.OnPause(ctx, target)
	s.cancel()
	return err
}

func TestEnvironmentTask_NothingDoesNothing(t *testing.T) {
	t.Parallel()

	target, _, rec := envTarget(t)
	log := &callLog{}
	task := &EnvironmentTask{
		Action:     action.Nothing,
		Containers: []action.DeploymentAction{&recordingService{name: "api", log: log}},
		Target:     target,
	}

	require.NoError(t, task.Run(context.Background()))
	assert.Empty(t, log.get())
	assert.Empty(t, rec.Events())
}

func TestNamespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "p1-e1", Namespace("p1", "e1"))
}
