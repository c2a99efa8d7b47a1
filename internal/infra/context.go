// Package infra defines the collaborators an infrastructure transaction
// depends on and the context aggregating them.
package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/shadracnicholas/engine/internal/events"
)

// Validator is implemented by every collaborator that can check its own
// configuration and credentials.
type Validator interface {
	IsValid(ctx context.Context) error
}

// CloudProvider is the cloud account hosting the cluster.
type CloudProvider interface {
	Validator
	Kind() events.Kind
	Name() string
}

// DNSProvider manages the DNS zone of deployed services.
type DNSProvider interface {
	Validator
	Name() string
}

// ContainerRegistry stores built application images.
type ContainerRegistry interface {
	Validator
	Name() string
}

// BuildPlatform builds application images.
type BuildPlatform interface {
	Validator
	Name() string
}

// Kubernetes is the lifecycle of the target cluster. Each operation has a
// compensating hook called when a transaction rolls back.
type Kubernetes interface {
	Validator
	ID() string
	Name() string
	OnCreate(ctx context.Context) error
	OnCreateError(ctx context.Context) error
	OnPause(ctx context.Context) error
	OnPauseError(ctx context.Context) error
	OnDelete(ctx context.Context) error
	OnDeleteError(ctx context.Context) error
}

// Context aggregates the collaborators of one infrastructure task.
// BuildPlatform and ContainerRegistry are optional.
type Context struct {
	CloudProvider     CloudProvider
	DNSProvider       DNSProvider
	ContainerRegistry ContainerRegistry
	BuildPlatform     BuildPlatform
	Kubernetes        Kubernetes
}

// ConfigErrorKind classifies an invalid collaborator.
type ConfigErrorKind int

const (
	// BuildPlatformNotValid means the build platform rejected its configuration.
	BuildPlatformNotValid ConfigErrorKind = iota
	// CloudProviderNotValid means the cloud provider rejected its credentials.
	CloudProviderNotValid
	// DNSProviderNotValid means the DNS provider rejected its credentials.
	DNSProviderNotValid
	// KubernetesNotValid means the cluster cannot be reached or is misconfigured.
	KubernetesNotValid
)

func (k ConfigErrorKind) String() string {
	switch k {
	case BuildPlatformNotValid:
		return "BuildPlatformNotValid"
	case CloudProviderNotValid:
		return "CloudProviderNotValid"
	case DNSProviderNotValid:
		return "DnsProviderNotValid"
	case KubernetesNotValid:
		return "KubernetesNotValid"
	default:
		return fmt.Sprintf("ConfigErrorKind(%d)", int(k))
	}
}

// ConfigError is returned when a collaborator of the Context is not valid.
type ConfigError struct {
	Kind ConfigErrorKind
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is a ConfigError of the given kind.
func IsConfigError(err error, kind ConfigErrorKind) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr) && cfgErr.Kind == kind
}

// Validate checks the collaborators in order: cloud provider, DNS provider,
// Kubernetes, then the build platform when one is set. The first invalid
// collaborator wins.
func (c *Context) Validate(ctx context.Context) error {
	if c.CloudProvider == nil {
		return &ConfigError{Kind: CloudProviderNotValid, Err: errors.New("no cloud provider configured")}
	}
	if err := c.CloudProvider.IsValid(ctx); err != nil {
		return &ConfigError{Kind: CloudProviderNotValid, Err: err}
	}

	if c.DNSProvider != nil {
		if err := c.DNSProvider.IsValid(ctx); err != nil {
			return &ConfigError{Kind: DNSProviderNotValid, Err: err}
		}
	}

	if c.Kubernetes == nil {
		return &ConfigError{Kind: KubernetesNotValid, Err: errors.New("no kubernetes configured")}
	}
	if err := c.Kubernetes.IsValid(ctx); err != nil {
		return &ConfigError{Kind: KubernetesNotValid, Err: err}
	}

	if c.BuildPlatform != nil {
		if err := c.BuildPlatform.IsValid(ctx); err != nil {
			return &ConfigError{Kind: BuildPlatformNotValid, Err: err}
		}
	}

	return nil
}
