package service

import (
	"context"
	"fmt"
	"net"

	"github.com/shadracnicholas/engine/internal/action"
	"github.com/shadracnicholas/engine/internal/deployment"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/logging"
	"github.com/shadracnicholas/engine/internal/report"
)

// Resolver resolves host names.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Router exposes the services of an environment on custom domains.
type Router struct {
	Options
	ID            string
	CustomDomains []string
	Resolver      Resolver
}

// NewRouter creates a Router resolving domains with the default resolver.
func NewRouter(id string, domains []string, opts Options) *Router {
	return &Router{Options: opts.withDefaults(), ID: id, CustomDomains: domains, Resolver: net.DefaultResolver}
}

func (r *Router) transmitter() events.Transmitter {
	return events.NewTransmitter(events.TransmitterRouter, r.ID, r.Name)
}

// OnCreate deploys the router chart, then checks its domains resolve.
func (r *Router) OnCreate(ctx context.Context, target *action.DeploymentTarget) error {
	details := stagedDetails(target, events.EnvironmentDeploy, r.transmitter())
	if err := checkCanceled(target, details); err != nil {
		return err
	}

	helmDeploy := r.helmDeployment(r.transmitter())
	task := deployment.NewTask(
		nil,
		func(ctx context.Context, _ logging.Logger, _ struct{}) (string, error) {
			if err := helmDeploy.OnCreate(ctx, target); err != nil {
				if isHelmDeployFailure(err) {
					return "", engineerr.NewRouterFailedToDeploy(details, err)
				}
				return "", err
			}
			return r.Chart.ReleaseName, nil
		},
		func(ctx context.Context, logger logging.Logger, _ string) {
			r.checkDomains(ctx, logger, details)
		},
	)

	return deployment.ExecuteLongDeployment[struct{}, string, *report.KubeState](ctx, r.reporter(ctx, target, details), task)
}

// checkDomains only warns: DNS propagation may lag behind the deployment.
func (r *Router) checkDomains(ctx context.Context, logger logging.Logger, details events.EventDetails) {
	if r.Resolver == nil {
		return
	}
	for _, domain := range r.CustomDomains {
		if _, err := r.Resolver.LookupHost(ctx, domain); err != nil {
			logger.Log(logging.Warning(details, fmt.Sprintf("Custom domain %s does not resolve yet: %v", domain, err)))
			continue
		}
		logger.Log(logging.Info(details, fmt.Sprintf("Custom domain %s resolves", domain)))
	}
}

// OnPause scales the router to zero.
func (r *Router) OnPause(ctx context.Context, target *action.DeploymentTarget) error {
	details := stagedDetails(target, events.EnvironmentPause, r.transmitter())
	return pauseWorkloads(ctx, target, details, r.Selector, false, r.PollInterval, r.PauseTimeout)
}

// OnDelete uninstalls the router chart.
func (r *Router) OnDelete(ctx context.Context, target *action.DeploymentTarget) error {
	details := stagedDetails(target, events.EnvironmentDelete, r.transmitter())
	if err := checkCanceled(target, details); err != nil {
		return err
	}
	return r.helmDeployment(r.transmitter()).OnDelete(ctx, target)
}
