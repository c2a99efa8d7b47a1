package service

import (
	"context"

	"github.com/shadracnicholas/engine/internal/action"
	"github.com/shadracnicholas/engine/internal/deployment"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/logging"
	"github.com/shadracnicholas/engine/internal/report"
)

// Database is a stateful service deployed from a database chart.
type Database struct {
	Options
	ID string
}

// NewDatabase creates a Database with defaulted options.
func NewDatabase(id string, opts Options) *Database {
	return &Database{Options: opts.withDefaults(), ID: id}
}

func (d *Database) transmitter() events.Transmitter {
	return events.NewTransmitter(events.TransmitterDatabase, d.ID, d.Name)
}

// OnCreate deploys the database chart as a reported long deployment.
func (d *Database) OnCreate(ctx context.Context, target *action.DeploymentTarget) error {
	details := stagedDetails(target, events.EnvironmentDeploy, d.transmitter())
	if err := checkCanceled(target, details); err != nil {
		return err
	}

	helmDeploy := d.helmDeployment(d.transmitter())
	task := deployment.RunOnly(func(ctx context.Context, _ logging.Logger) (string, error) {
		if err := helmDeploy.OnCreate(ctx, target); err != nil {
			if isHelmDeployFailure(err) {
				return "", engineerr.NewDatabaseFailedToStartAfterSeveralRetries(details, d.Name, err)
			}
			return "", err
		}
		return d.Chart.ReleaseName, nil
	})

	return deployment.ExecuteLongDeployment[struct{}, string, *report.KubeState](ctx, d.reporter(ctx, target, details), task)
}

// OnPause scales the database statefulsets to zero.
func (d *Database) OnPause(ctx context.Context, target *action.DeploymentTarget) error {
	details := stagedDetails(target, events.EnvironmentPause, d.transmitter())
	return pauseWorkloads(ctx, target, details, d.Selector, true, d.PollInterval, d.PauseTimeout)
}

// OnDelete uninstalls the database chart.
func (d *Database) OnDelete(ctx context.Context, target *action.DeploymentTarget) error {
	details := stagedDetails(target, events.EnvironmentDelete, d.transmitter())
	if err := checkCanceled(target, details); err != nil {
		return err
	}
	return d.helmDeployment(d.transmitter()).OnDelete(ctx, target)
}
