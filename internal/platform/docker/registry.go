package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/registry"

	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
)

// ContainerRegistry is a registry the built images are pushed to.
type ContainerRegistry struct {
	client   *Client
	url      string
	username string
	password string
	details  events.EventDetails
}

// NewContainerRegistry creates a ContainerRegistry.
func NewContainerRegistry(client *Client, url, username, password string, details events.EventDetails) *ContainerRegistry {
	return &ContainerRegistry{client: client, url: url, username: username, password: password, details: details}
}

// Name implements infra.ContainerRegistry.
func (r *ContainerRegistry) Name() string { return r.url }

// IsValid logs in to the registry through the daemon.
func (r *ContainerRegistry) IsValid(ctx context.Context) error {
	_, err := r.client.api.RegistryLogin(ctx, registry.AuthConfig{
		ServerAddress: r.url,
		Username:      r.username,
		Password:      r.password,
	})
	if err != nil {
		return engineerr.NewContainerRegistryInvalidCredentials(r.details, r.url, fmt.Errorf("registry login: %w", err))
	}
	return nil
}
