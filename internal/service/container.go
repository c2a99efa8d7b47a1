package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shadracnicholas/engine/internal/action"
	"github.com/shadracnicholas/engine/internal/deployment"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/k8s"
	"github.com/shadracnicholas/engine/internal/logging"
	"github.com/shadracnicholas/engine/internal/report"
	"github.com/shadracnicholas/engine/internal/util/naming"
)

// ImageRemover deletes a locally cached image.
type ImageRemover interface {
	RemoveImage(ctx context.Context, image string) error
}

// Container is an application deployed from a container image.
type Container struct {
	Options
	ID       string
	Image    string
	Replicas int32
	// Images, when set, is used to drop the previously deployed image from
	// the local build cache once the new one is live.
	Images ImageRemover
}

// NewContainer creates a Container with defaulted options.
func NewContainer(id, image string, opts Options) *Container {
	return &Container{Options: opts.withDefaults(), ID: id, Image: image, Replicas: 1}
}

func (c *Container) transmitter() events.Transmitter {
	return events.NewTransmitter(events.TransmitterApplication, c.ID, c.Name)
}

func (c *Container) pendingServiceName() string {
	return naming.PendingService(c.Name)
}

// OnCreate deploys the container chart as a reported long deployment.
func (c *Container) OnCreate(ctx context.Context, target *action.DeploymentTarget) error {
	details := stagedDetails(target, events.EnvironmentDeploy, c.transmitter())
	if err := checkCanceled(target, details); err != nil {
		return err
	}

	helmDeploy := c.helmDeployment(c.transmitter())
	task := deployment.NewTask(
		func(ctx context.Context, _ logging.Logger) (string, error) {
			image, err := target.Kube.CurrentImage(ctx, target.Namespace, c.Name)
			if err != nil && !errors.Is(err, k8s.ErrDeploymentNotFound) {
				return "", engineerr.NewClientServiceFailedToDeployBeforeStart(details, c.Name, err)
			}
			return image, nil
		},
		func(ctx context.Context, _ logging.Logger, previous string) (string, error) {
			down, err := target.Kube.IsScaledDown(ctx, target.Namespace, c.Selector)
			if err != nil {
				return previous, engineerr.NewCannotScaleWorkload(details, c.Name, c.Replicas, err)
			}
			if down {
				if _, err := target.Kube.ScaleDeployments(ctx, target.Namespace, c.Selector, c.Replicas); err != nil {
					return previous, engineerr.NewCannotScaleWorkload(details, c.Name, c.Replicas, err)
				}
			}

			if err := helmDeploy.OnCreate(ctx, target); err != nil {
				if isHelmDeployFailure(err) {
					return previous, engineerr.NewClientServiceFailedToStart(details, c.Name, err)
				}
				return previous, err
			}

			if err := target.Kube.DeleteService(ctx, target.Namespace, c.pendingServiceName()); err != nil {
				return previous, engineerr.NewCannotDeleteService(details, c.pendingServiceName(), err)
			}
			return previous, nil
		},
		func(ctx context.Context, logger logging.Logger, previous string) {
			c.removePreviousImage(ctx, logger, details, previous)
		},
	)

	return deployment.ExecuteLongDeployment[string, string, *report.KubeState](ctx, c.reporter(ctx, target, details), task)
}

func (c *Container) removePreviousImage(ctx context.Context, logger logging.Logger, details events.EventDetails, previous string) {
	if c.Images == nil || previous == "" || previous == c.Image {
		return
	}
	if err := c.Images.RemoveImage(ctx, previous); err != nil {
		logger.Log(logging.Warning(details, fmt.Sprintf("Could not remove previous image %s from the build cache: %v", previous, err)))
	}
}

// OnPause scales the container to zero.
func (c *Container) OnPause(ctx context.Context, target *action.DeploymentTarget) error {
	details := stagedDetails(target, events.EnvironmentPause, c.transmitter())
	return pauseWorkloads(ctx, target, details, c.Selector, false, c.PollInterval, c.PauseTimeout)
}

// OnDelete uninstalls the container chart.
func (c *Container) OnDelete(ctx context.Context, target *action.DeploymentTarget) error {
	details := stagedDetails(target, events.EnvironmentDelete, c.transmitter())
	if err := checkCanceled(target, details); err != nil {
		return err
	}
	return c.helmDeployment(c.transmitter()).OnDelete(ctx, target)
}
