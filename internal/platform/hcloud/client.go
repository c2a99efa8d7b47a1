package hcloud

import (
	"time"

	"github.com/go-logr/logr"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/shadracnicholas/engine/internal/metrics"
	"github.com/shadracnicholas/engine/internal/util/retry"
)

// Client wraps the Hetzner Cloud API.
type Client struct {
	api          *hcloud.Client
	retry        retry.Policy
	logger       logr.Logger
	pollInterval time.Duration
	waitAttempts int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHCloudClient sets the underlying hcloud client.
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *Client) {
		c.api = hc
	}
}

// WithRetryPolicy sets how locked resources are retried.
func WithRetryPolicy(p retry.Policy) ClientOption {
	return func(c *Client) {
		c.retry = p
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithPolling sets how server deletions and in-use firewalls are polled.
func WithPolling(interval time.Duration, attempts int) ClientOption {
	return func(c *Client) {
		c.pollInterval = interval
		c.waitAttempts = attempts
	}
}

// NewClient creates a Client authenticated with token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		api:          hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("engine", "")),
		retry:        retry.DefaultPolicy,
		logger:       logr.Discard(),
		pollInterval: 5 * time.Second,
		waitAttempts: 60,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// observe records an API call in the metrics.
func observe(operation string, start time.Time, err error) {
	metrics.RecordHCloudAPICall(operation, err == nil, time.Since(start))
}
