package hcloud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/shadracnicholas/engine/internal/util/retry"
)

func retryDo(ctx context.Context, c *Client, op func(ctx context.Context) error) error {
	return retry.Do(ctx, c.retry, op)
}

// PowerOffByLabel shuts down every running server carrying labels and
// returns how many were stopped.
func (c *Client) PowerOffByLabel(ctx context.Context, labels map[string]string) (int, error) {
	return c.setPower(ctx, labels, hcloud.ServerStatusRunning, "poweroff", c.api.Server.Poweroff)
}

// PowerOnByLabel starts every stopped server carrying labels and returns
// how many were started.
func (c *Client) PowerOnByLabel(ctx context.Context, labels map[string]string) (int, error) {
	return c.setPower(ctx, labels, hcloud.ServerStatusOff, "poweron", c.api.Server.Poweron)
}

func (c *Client) setPower(
	ctx context.Context,
	labels map[string]string,
	from hcloud.ServerStatus,
	operation string,
	call func(context.Context, *hcloud.Server) (*hcloud.Action, *hcloud.Response, error),
) (int, error) {
	servers, err := c.api.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: LabelSelector(labels)},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list servers: %w", err)
	}

	var (
		changed int
		errs    []error
	)
	for _, server := range servers {
		if server.Status != from {
			continue
		}
		err := retryDo(ctx, c, func(ctx context.Context) error {
			start := time.Now()
			action, _, err := call(ctx, server)
			observe(operation, start, err)
			if err != nil {
				return retryable(err)
			}
			return retry.Fatal(c.api.Action.WaitFor(ctx, action))
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s server %q: %w", operation, server.Name, err))
			continue
		}
		c.logger.Info("server power changed", "server", server.Name, "operation", operation)
		changed++
	}
	return changed, errors.Join(errs...)
}
