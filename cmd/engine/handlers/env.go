package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"

	"github.com/shadracnicholas/engine/internal/action"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/helm"
	"github.com/shadracnicholas/engine/internal/k8s"
	"github.com/shadracnicholas/engine/internal/platform/docker"
	"github.com/shadracnicholas/engine/internal/task"
)

var (
	// newKubeClient connects to the cluster described by kubeconfig.
	newKubeClient = k8s.NewClientFromBytes

	// newReleaseManager creates the Helm client of the environment namespace.
	newReleaseManager = func(kubeconfig []byte, namespace string, logger logr.Logger) (action.ReleaseManager, error) {
		return helm.NewClient(kubeconfig, namespace, logger)
	}

	// newDockerClient connects to the local Docker daemon.
	newDockerClient = func(logger logr.Logger) (*docker.Client, error) {
		return docker.NewClient(logger)
	}
)

// Env handles the env deploy, pause and delete commands.
func Env(ctx context.Context, a action.Action, opts Options) error {
	ctx, rt, err := setup(ctx, opts, envActionName(a))
	if err != nil {
		return err
	}
	req := rt.req
	if req.Environment == nil {
		return errors.New("request has no environment")
	}
	if req.KubeconfigPath == "" {
		return errors.New("request has no kubeconfig_path")
	}

	env := req.Environment
	namespace := task.Namespace(env.ProjectShortID, env.EnvironmentShortID)

	if a == action.Delete {
		if err := confirmDelete(ctx, fmt.Sprintf("environment %s", namespace), opts.Yes); err != nil {
			return err
		}
	}

	stop := serveMetrics(rt.root, opts.MetricsAddr)
	defer stop()

	details := events.NewEventDetails(
		events.KindHetzner, req.OrganizationID, req.ClusterID, req.ExecutionID,
		events.EnvironmentStage(events.EnvironmentDeploy),
		events.NewTransmitter(events.TransmitterEnvironment, namespace, namespace),
	)

	// #nosec G304
	kubeconfig, err := os.ReadFile(req.KubeconfigPath)
	if err != nil {
		return fmt.Errorf("failed to read kubeconfig: %w", err)
	}
	kube, err := newKubeClient(kubeconfig)
	if err != nil {
		return renderError(engineerr.NewCannotConnectK8sCluster(details, err), opts.verbosity())
	}
	version, err := kube.ServerVersion()
	if err != nil {
		return renderError(engineerr.NewCannotConnectK8sCluster(details, err), opts.verbosity())
	}
	rt.root.V(1).Info("connected to cluster", "version", version)
	releases, err := newReleaseManager(kubeconfig, namespace, rt.root.WithName("helm"))
	if err != nil {
		return renderError(engineerr.NewCannotConnectK8sCluster(details, err), opts.verbosity())
	}

	// A signal marks the task canceled without canceling ctx.
	sigCtx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	target := &action.DeploymentTarget{
		Kube:       kube,
		Helm:       releases,
		Kubeconfig: kubeconfig,
		Details:    details,
		IsTaskCanceled: func() bool {
			return sigCtx.Err() != nil && ctx.Err() == nil
		},
		Logger: rt.logger,
	}

	t := &task.EnvironmentTask{
		Action:             a,
		ProjectShortID:     env.ProjectShortID,
		EnvironmentShortID: env.EnvironmentShortID,
		Target:             target,
		MaxParallel:        env.MaxParallel,
		ReportFrequency:    rt.timeouts.ReportFrequency,
	}

	builds := buildRequests(env)
	var images *docker.BuildPlatform
	if a == action.Create && len(builds) > 0 {
		platform, closeFn, err := buildPlatform(ctx, rt, details)
		if err != nil {
			return renderError(err, opts.verbosity())
		}
		defer closeFn()
		images = platform
		t.Builds = builds
		t.Builder = platform
	}

	t.Databases, t.Containers, t.Routers = services(env, rt.timeouts, images)

	rt.root.Info("running environment task", "action", a.String(), "namespace", namespace)
	if err := t.Run(ctx); err != nil {
		return renderError(err, opts.verbosity())
	}

	printSuccess(fmt.Sprintf("Environment %s %s", namespace, envDone(a)), req.ExecutionID)
	return nil
}

// buildPlatform connects to Docker and checks the registry credentials.
func buildPlatform(ctx context.Context, rt *runtime, details events.EventDetails) (*docker.BuildPlatform, func(), error) {
	buildDetails := details.CloneWithTransmitter(events.NewTransmitter(events.TransmitterBuildPlatform, "docker", "docker"))

	client, err := newDockerClient(rt.root.WithName("docker"))
	if err != nil {
		return nil, nil, engineerr.NewDockerError(buildDetails, err)
	}
	closeFn := func() { _ = client.Close() }

	platform := docker.NewBuildPlatform(client)
	if err := platform.IsValid(ctx); err != nil {
		closeFn()
		return nil, nil, engineerr.NewDockerError(buildDetails, err)
	}

	reg := rt.req.Registry
	registry := docker.NewContainerRegistry(client, reg.URL, reg.Username, reg.Password,
		details.CloneWithTransmitter(events.NewTransmitter(events.TransmitterContainerRegistry, reg.URL, reg.URL)))
	if err := registry.IsValid(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}

	return platform, closeFn, nil
}

func envActionName(a action.Action) string {
	switch a {
	case action.Pause:
		return "pause"
	case action.Delete:
		return "delete"
	default:
		return "deploy"
	}
}

func envDone(a action.Action) string {
	switch a {
	case action.Pause:
		return "paused"
	case action.Delete:
		return "deleted"
	default:
		return "deployed"
	}
}
