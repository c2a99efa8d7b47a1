package handlers

import (
	"context"
	"fmt"

	hcloudgo "github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/shadracnicholas/engine/internal/config"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/infra"
	"github.com/shadracnicholas/engine/internal/platform/cloudflare"
	"github.com/shadracnicholas/engine/internal/platform/hcloud"
	"github.com/shadracnicholas/engine/internal/platform/s3"
	"github.com/shadracnicholas/engine/internal/task"
	"github.com/shadracnicholas/engine/internal/transaction"
	"github.com/shadracnicholas/engine/internal/util/retry"
)

var (
	// newArchiveStore opens the bucket receiving workspace archives.
	newArchiveStore = func(ctx context.Context, cfg *config.ObjectStorageConfig) (task.ArchiveUploader, error) {
		client, err := s3.NewClient(ctx, cfg.Endpoint, cfg.Region, cfg.AccessKey, cfg.SecretKey)
		if err != nil {
			return nil, err
		}
		return s3.NewArchiveStore(client, cfg.Bucket), nil
	}
)

// Infra handles the infra create, pause and delete commands.
func Infra(ctx context.Context, a task.InfraAction, opts Options) error {
	ctx, rt, err := setup(ctx, opts, a.String())
	if err != nil {
		return err
	}
	req := rt.req

	if a == task.InfraDelete {
		if err := confirmDelete(ctx, fmt.Sprintf("cluster %s", req.ClusterName), opts.Yes); err != nil {
			return err
		}
	}

	stop := serveMetrics(rt.root, opts.MetricsAddr)
	defer stop()

	details := events.NewEventDetails(
		events.KindHetzner, req.OrganizationID, req.ClusterID, req.ExecutionID,
		events.InfrastructureStage(events.InfrastructureLoadConfiguration),
		events.NewTransmitter(events.TransmitterKubernetes, req.ClusterID, req.ClusterName),
	)

	infraCtx, err := infraContext(rt, details)
	if err != nil {
		return renderError(err, opts.verbosity())
	}

	t := &task.InfrastructureTask{
		Action:       a,
		Infra:        infraCtx,
		Details:      details,
		Logger:       rt.logger,
		WorkspaceDir: req.WorkspaceDir,
		SkipArchive:  req.ObjectStorage == nil || config.DeployFromFile(),
	}
	if !t.SkipArchive {
		store, err := newArchiveStore(ctx, req.ObjectStorage)
		if err != nil {
			return fmt.Errorf("failed to open object storage: %w", err)
		}
		t.Archive = store
	}

	rt.root.Info("running infrastructure task", "action", a.String(), "cluster", req.ClusterName)
	res := t.Run(ctx)

	switch res.Status {
	case transaction.StatusOk:
		printSuccess(fmt.Sprintf("Cluster %s %s", req.ClusterName, infraDone(a)), req.ExecutionID)
		return nil
	case transaction.StatusCanceled:
		return fmt.Errorf("%s of cluster %s was canceled", a, req.ClusterName)
	default:
		return renderError(res.Err, opts.verbosity())
	}
}

func infraDone(a task.InfraAction) string {
	switch a {
	case task.InfraPause:
		return "paused"
	case task.InfraDelete:
		return "deleted"
	default:
		return "created"
	}
}

// infraContext builds the collaborators of the cluster from the request.
func infraContext(rt *runtime, details events.EventDetails) (*infra.Context, error) {
	req := rt.req

	hcOpts := []hcloudgo.ClientOption{
		hcloudgo.WithToken(req.HCloud.Token),
		hcloudgo.WithApplication("engine", ""),
	}
	if req.HCloud.Endpoint != "" {
		hcOpts = append(hcOpts, hcloudgo.WithEndpoint(req.HCloud.Endpoint))
	}
	client := hcloud.NewClient(req.HCloud.Token,
		hcloud.WithHCloudClient(hcloudgo.NewClient(hcOpts...)),
		hcloud.WithLogger(rt.root.WithName("hcloud")),
		hcloud.WithRetryPolicy(retry.Policy{
			MaxAttempts:  rt.timeouts.RetryMaxAttempts,
			InitialDelay: rt.timeouts.RetryInitialDelay,
		}),
	)

	infraCtx := &infra.Context{
		CloudProvider: hcloud.NewCloudProvider(client, req.Provider),
		Kubernetes:    hcloud.NewCluster(client, req.ClusterID, req.ClusterName, req.HCloud.NetworkCIDR, details),
	}

	if req.DNS != nil {
		dns, err := cloudflare.NewDNSProvider(req.DNS.Token, req.DNS.APIURL, req.DNS.Zone,
			details.CloneWithTransmitter(events.NewTransmitter(events.TransmitterDNSProvider, req.DNS.Provider, req.DNS.Zone)))
		if err != nil {
			return nil, err
		}
		infraCtx.DNSProvider = dns
	}

	return infraCtx, nil
}
