package task

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/shadracnicholas/engine/internal/action"
	"github.com/shadracnicholas/engine/internal/deployment"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/logging"
	"github.com/shadracnicholas/engine/internal/platform/docker"
	"github.com/shadracnicholas/engine/internal/report"
)

// ImageBuilder builds container images.
type ImageBuilder interface {
	Build(ctx context.Context, details events.EventDetails, req docker.BuildRequest, isCanceled func() bool) error
}

// build runs every build request before the services are deployed.
func (t *EnvironmentTask) build(ctx context.Context, target *action.DeploymentTarget) error {
	details := target.Details.CloneWithStage(events.EnvironmentStage(events.EnvironmentBuild))
	if t.Builder == nil {
		return engineerr.NewBuilderError(details, "", fmt.Errorf("%d images to build but no build platform", len(t.Builds)))
	}

	target.Log(logging.Info(details, fmt.Sprintf("Building %d images", len(t.Builds))))

	g, gctx := errgroup.WithContext(ctx)
	if t.MaxParallel > 0 {
		g.SetLimit(t.MaxParallel)
	}
	logger := target.Logger
	if logger == nil {
		logger = logging.Multi{}
	}
	for _, req := range t.Builds {
		g.Go(func() error {
			appDetails := details.CloneWithTransmitter(events.NewTransmitter(events.TransmitterApplication, req.Application, req.Application))
			reporter := report.NewLogReporter[struct{}]("image "+req.Image, appDetails, logger).WithFrequency(t.ReportFrequency)
			return deployment.ExecuteLongDeployment[struct{}, struct{}, *report.LogState](gctx, reporter,
				deployment.RunOnly(func(ctx context.Context, _ logging.Logger) (struct{}, error) {
					return struct{}{}, t.Builder.Build(ctx, appDetails, req, target.IsTaskCanceled)
				}))
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	target.Log(logging.Info(details.CloneWithStage(events.EnvironmentStage(events.EnvironmentBuilt)), "Images built"))
	return nil
}
