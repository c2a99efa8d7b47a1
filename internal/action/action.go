// Package action defines the lifecycle contract of deployable units and the
// Helm-backed implementation most of them share.
package action

import (
	"context"
	"fmt"
	"time"

	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/helm"
	"github.com/shadracnicholas/engine/internal/k8s"
	"github.com/shadracnicholas/engine/internal/logging"
)

// DeploymentAction is implemented by every deployable unit. Returned errors
// are *engineerr.EngineError.
type DeploymentAction interface {
	OnCreate(ctx context.Context, target *DeploymentTarget) error
	OnPause(ctx context.Context, target *DeploymentTarget) error
	OnDelete(ctx context.Context, target *DeploymentTarget) error
}

// Action selects which lifecycle operation to run.
type Action int

const (
	// Create deploys or updates the unit.
	Create Action = iota
	// Pause stops the unit without deleting its data.
	Pause
	// Delete removes the unit.
	Delete
	// Nothing does not touch the unit.
	Nothing
)

func (a Action) String() string {
	switch a {
	case Create:
		return "Create"
	case Pause:
		return "Pause"
	case Delete:
		return "Delete"
	case Nothing:
		return "Nothing"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ExecAction dispatches action to the matching method of a.
func ExecAction(ctx context.Context, a DeploymentAction, target *DeploymentTarget, action Action) error {
	switch action {
	case Create:
		return a.OnCreate(ctx, target)
	case Pause:
		return a.OnPause(ctx, target)
	case Delete:
		return a.OnDelete(ctx, target)
	default:
		return nil
	}
}

// ReleaseManager installs and removes Helm releases.
type ReleaseManager interface {
	InstallOrUpgrade(ctx context.Context, chart helm.Chart, timeout time.Duration) error
	Uninstall(releaseName string, timeout time.Duration) error
}

// DeploymentTarget is what a deployable unit is deployed onto.
type DeploymentTarget struct {
	Kube       *k8s.Client
	Helm       ReleaseManager
	Kubeconfig []byte
	Namespace  string
	// Details is the environment-level event context. Units restage it and
	// replace its transmitter.
	Details        events.EventDetails
	IsTaskCanceled func() bool
	Logger         logging.Logger
}

// Canceled reports whether the running task was canceled.
func (t *DeploymentTarget) Canceled() bool {
	return t.IsTaskCanceled != nil && t.IsTaskCanceled()
}

// Log emits event if the target has a logger.
func (t *DeploymentTarget) Log(event logging.EngineEvent) {
	if t.Logger != nil {
		t.Logger.Log(event)
	}
}
