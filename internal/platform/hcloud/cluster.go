package hcloud

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"

	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/util/labels"
	"github.com/shadracnicholas/engine/internal/util/naming"
)

// LabelCluster marks every resource belonging to a cluster.
const LabelCluster = labels.KeyCluster

var clusterNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// Cluster is the lifecycle of the cloud resources backing a Kubernetes
// cluster: a private network, a firewall and a placement group. Servers
// are expected to carry the cluster label so pause and delete reach them.
type Cluster struct {
	client      *Client
	IDValue     string
	NameValue   string
	NetworkCIDR string
	// Labels are set on created resources.
	Labels map[string]string
	// Selector selects the resources to pause and delete.
	Selector map[string]string
	Details  events.EventDetails
}

// NewCluster creates a Cluster whose resources are named after name and
// labelled with the cluster id and organization.
func NewCluster(client *Client, id, name, networkCIDR string, details events.EventDetails) *Cluster {
	return &Cluster{
		client:      client,
		IDValue:     id,
		NameValue:   name,
		NetworkCIDR: networkCIDR,
		Labels:      labels.NewLabelBuilder(id).WithOrganization(details.OrganizationID()).Build(),
		Selector:    labels.ForCluster(id),
		Details:     details,
	}
}

// ID implements infra.Kubernetes.
func (c *Cluster) ID() string { return c.IDValue }

// Name implements infra.Kubernetes.
func (c *Cluster) Name() string { return c.NameValue }

// IsValid checks the cluster configuration.
func (c *Cluster) IsValid(_ context.Context) error {
	if c.client == nil {
		return errors.New("no hcloud client configured")
	}
	if c.IDValue == "" {
		return errors.New("cluster id is empty")
	}
	if !clusterNamePattern.MatchString(c.NameValue) {
		return fmt.Errorf("cluster name %q must be a lowercase DNS label", c.NameValue)
	}
	if _, _, err := net.ParseCIDR(c.NetworkCIDR); err != nil {
		return fmt.Errorf("invalid network cidr %q: %w", c.NetworkCIDR, err)
	}
	if c.Selector[LabelCluster] == "" {
		return errors.New("cluster selector has no cluster label")
	}
	return nil
}

func (c *Cluster) details(step events.InfrastructureStep) events.EventDetails {
	return c.Details.CloneWithStage(events.InfrastructureStage(step))
}

// OnCreate ensures the network, firewall and placement group exist.
func (c *Cluster) OnCreate(ctx context.Context) error {
	details := c.details(events.InfrastructureCreate)
	if _, err := c.client.EnsureNetwork(ctx, naming.Network(c.NameValue), c.NetworkCIDR, c.Labels); err != nil {
		return toEngineError(details, err)
	}
	if _, err := c.client.EnsureFirewall(ctx, naming.Firewall(c.NameValue), c.Labels); err != nil {
		return toEngineError(details, err)
	}
	if _, err := c.client.EnsurePlacementGroup(ctx, naming.PlacementGroup(c.NameValue), c.Labels); err != nil {
		return toEngineError(details, err)
	}
	return nil
}

// OnCreateError removes whatever OnCreate left behind.
func (c *Cluster) OnCreateError(ctx context.Context) error {
	if err := c.client.CleanupByLabel(ctx, c.Selector); err != nil {
		return toEngineError(c.details(events.InfrastructureCreateError), err)
	}
	return nil
}

// OnPause powers off the cluster servers.
func (c *Cluster) OnPause(ctx context.Context) error {
	if _, err := c.client.PowerOffByLabel(ctx, c.Selector); err != nil {
		return toEngineError(c.details(events.InfrastructurePause), err)
	}
	return nil
}

// OnPauseError powers the servers back on.
func (c *Cluster) OnPauseError(ctx context.Context) error {
	if _, err := c.client.PowerOnByLabel(ctx, c.Selector); err != nil {
		return toEngineError(c.details(events.InfrastructurePauseError), err)
	}
	return nil
}

// OnDelete deletes every resource carrying the cluster labels.
func (c *Cluster) OnDelete(ctx context.Context) error {
	if err := c.client.CleanupByLabel(ctx, c.Selector); err != nil {
		return toEngineError(c.details(events.InfrastructureDelete), err)
	}
	return nil
}

// OnDeleteError is a no-op.
func (c *Cluster) OnDeleteError(_ context.Context) error {
	return nil
}
