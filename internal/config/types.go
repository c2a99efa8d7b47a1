package config

import (
	"github.com/shadracnicholas/engine/internal/helm"
)

// Service kinds.
const (
	KindContainer = "container"
	KindDatabase  = "database"
	KindRouter    = "router"
)

// Request is one engine execution.
type Request struct {
	OrganizationID string `mapstructure:"organization_id" validate:"required"`
	ClusterID      string `mapstructure:"cluster_id" validate:"required"`
	ClusterName    string `mapstructure:"cluster_name" validate:"required,hostname_rfc1123,lowercase"`
	// ExecutionID is generated when empty.
	ExecutionID string `mapstructure:"execution_id"`
	Provider    string `mapstructure:"provider" validate:"oneof=hetzner"`
	// Action is set by the command being run.
	Action string `mapstructure:"action" validate:"omitempty,oneof=create pause delete deploy"`

	HCloud        HCloudConfig         `mapstructure:"hcloud"`
	DNS           *DNSConfig           `mapstructure:"dns"`
	Registry      *RegistryConfig      `mapstructure:"registry"`
	ObjectStorage *ObjectStorageConfig `mapstructure:"object_storage"`

	KubeconfigPath string             `mapstructure:"kubeconfig_path"`
	WorkspaceDir   string             `mapstructure:"workspace_dir"`
	Environment    *EnvironmentConfig `mapstructure:"environment"`
}

// HCloudConfig is the Hetzner Cloud account.
type HCloudConfig struct {
	Token       string `mapstructure:"token" validate:"required"`
	Location    string `mapstructure:"location"`
	NetworkCIDR string `mapstructure:"network_cidr" validate:"cidrv4"`
	Endpoint    string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// DNSConfig is the DNS provider managing the services' domains.
type DNSConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=cloudflare"`
	Token    string `mapstructure:"token" validate:"required"`
	Zone     string `mapstructure:"zone" validate:"omitempty,fqdn"`
	APIURL   string `mapstructure:"api_url"`
}

// RegistryConfig is the container registry images are pushed to.
type RegistryConfig struct {
	URL      string `mapstructure:"url" validate:"required"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ObjectStorageConfig is where workspace archives are uploaded.
type ObjectStorageConfig struct {
	Endpoint  string `mapstructure:"endpoint" validate:"omitempty,url"`
	Region    string `mapstructure:"region" validate:"required"`
	AccessKey string `mapstructure:"access_key" validate:"required"`
	SecretKey string `mapstructure:"secret_key" validate:"required"`
	Bucket    string `mapstructure:"bucket" validate:"required"`
}

// EnvironmentConfig lists the services of one environment.
type EnvironmentConfig struct {
	ProjectShortID     string          `mapstructure:"project_short_id" validate:"required,alphanum,lowercase"`
	EnvironmentShortID string          `mapstructure:"environment_short_id" validate:"required,alphanum,lowercase"`
	Services           []ServiceConfig `mapstructure:"services" validate:"dive"`
	// MaxParallel bounds the services of one kind deployed at once.
	MaxParallel int `mapstructure:"max_parallel" validate:"gte=0"`
}

// ServiceConfig is one deployable service.
type ServiceConfig struct {
	Kind     string       `mapstructure:"kind" validate:"required,oneof=container database router"`
	ID       string       `mapstructure:"id"`
	Name     string       `mapstructure:"name" validate:"required,hostname_rfc1123,lowercase"`
	Image    string       `mapstructure:"image" validate:"required_if=Kind container"`
	Selector string       `mapstructure:"selector"`
	Replicas int32        `mapstructure:"replicas" validate:"gte=0"`
	Domains  []string     `mapstructure:"domains" validate:"dive,fqdn"`
	Chart    ChartConfig  `mapstructure:"chart"`
	Build    *BuildConfig `mapstructure:"build"`
}

// ChartConfig locates the Helm chart of a service.
type ChartConfig struct {
	Path       string         `mapstructure:"path"`
	Repo       string         `mapstructure:"repo" validate:"omitempty,url"`
	Name       string         `mapstructure:"name"`
	Version    string         `mapstructure:"version"`
	ValuesFile string         `mapstructure:"values_file"`
	Values     map[string]any `mapstructure:"values"`
}

// BuildConfig builds the service image before deploying it.
type BuildConfig struct {
	ContextDir string            `mapstructure:"context_dir" validate:"required"`
	Dockerfile string            `mapstructure:"dockerfile"`
	Args       map[string]string `mapstructure:"args"`
}

// HelmChart converts the chart settings of s.
func (s ServiceConfig) HelmChart() helm.Chart {
	return helm.Chart{
		ReleaseName: s.Name,
		Path:        s.Chart.Path,
		RepoURL:     s.Chart.Repo,
		Name:        s.Chart.Name,
		Version:     s.Chart.Version,
		ValuesFile:  s.Chart.ValuesFile,
		Values:      helm.Values(s.Chart.Values),
	}
}

// ServiceID is the service id, or its name when none is set.
func (s ServiceConfig) ServiceID() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}

// ServicesOfKind returns the services of the given kind in declaration order.
func (e *EnvironmentConfig) ServicesOfKind(kind string) []ServiceConfig {
	var out []ServiceConfig
	for _, s := range e.Services {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
