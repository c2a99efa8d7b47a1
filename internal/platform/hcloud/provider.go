package hcloud

import (
	"context"
	"errors"

	"github.com/shadracnicholas/engine/internal/events"
)

// CloudProvider is the Hetzner Cloud account hosting the cluster.
type CloudProvider struct {
	client *Client
	name   string
}

// NewCloudProvider creates a CloudProvider backed by client.
func NewCloudProvider(client *Client, name string) *CloudProvider {
	return &CloudProvider{client: client, name: name}
}

// Kind implements infra.CloudProvider.
func (p *CloudProvider) Kind() events.Kind { return events.KindHetzner }

// Name implements infra.CloudProvider.
func (p *CloudProvider) Name() string { return p.name }

// Client returns the API client.
func (p *CloudProvider) Client() *Client { return p.client }

// IsValid checks the token by listing locations.
func (p *CloudProvider) IsValid(ctx context.Context) error {
	locations, err := p.client.ListLocations(ctx)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		return errors.New("token has no visible locations")
	}
	return nil
}
