package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Defaults applied to a loaded request.
const (
	DefaultProvider    = "hetzner"
	DefaultNetworkCIDR = "10.0.0.0/16"
	DefaultDNSProvider = "cloudflare"
)

// LoadFile reads, defaults and validates a request from a YAML file.
func LoadFile(path string) (*Request, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	return Load(data)
}

// Load parses, defaults and validates a request.
func Load(data []byte) (*Request, error) {
	req, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return req, nil
}

// Parse decodes and defaults a request without validating it.
func Parse(data []byte) (*Request, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var req Request
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &req,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}

	req.applyDefaults()
	return &req, nil
}

func (r *Request) applyDefaults() {
	if r.ExecutionID == "" {
		r.ExecutionID = uuid.NewString()
	}
	if r.Provider == "" {
		r.Provider = DefaultProvider
	}
	if r.HCloud.NetworkCIDR == "" {
		r.HCloud.NetworkCIDR = DefaultNetworkCIDR
	}
	if r.DNS != nil && r.DNS.Provider == "" {
		r.DNS.Provider = DefaultDNSProvider
	}
	if r.WorkspaceDir == "" {
		r.WorkspaceDir = filepath.Join(os.TempDir(), "engine", r.ExecutionID)
	}
}
