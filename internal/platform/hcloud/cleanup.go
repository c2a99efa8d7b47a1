package hcloud

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// CleanupError accumulates the failures of a cleanup pass.
type CleanupError struct {
	Errors []error
}

func (e *CleanupError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("cleanup encountered %d errors: %v", len(e.Errors), errors.Join(e.Errors...))
}

func (e *CleanupError) Unwrap() []error {
	return e.Errors
}

// Add records err if it is not nil.
func (e *CleanupError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors reports whether any failure was recorded.
func (e *CleanupError) HasErrors() bool {
	return len(e.Errors) > 0
}

// LabelSelector renders labels as a Hetzner Cloud label selector, sorted by key.
func LabelSelector(labels map[string]string) string {
	keys := slices.Sorted(maps.Keys(labels))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+labels[k])
	}
	return strings.Join(parts, ",")
}

// CleanupByLabel deletes the servers, firewalls, networks and placement
// groups carrying labels, in that order. Every kind is attempted even when
// an earlier one fails.
func (c *Client) CleanupByLabel(ctx context.Context, labels map[string]string) error {
	selector := LabelSelector(labels)
	if selector == "" {
		return errors.New("refusing to clean up without a label selector")
	}
	c.logger.Info("cleaning up resources", "selector", selector)

	cleanupErrs := &CleanupError{}
	if err := c.deleteServers(ctx, selector); err != nil {
		cleanupErrs.Add(fmt.Errorf("servers: %w", err))
	}
	if err := c.deleteFirewalls(ctx, selector); err != nil {
		cleanupErrs.Add(fmt.Errorf("firewalls: %w", err))
	}
	if err := deleteAll(ctx, c, "network",
		func(ctx context.Context) ([]*hcloud.Network, error) {
			return c.api.Network.AllWithOpts(ctx, hcloud.NetworkListOpts{ListOpts: hcloud.ListOpts{LabelSelector: selector}})
		},
		func(ctx context.Context, n *hcloud.Network) error {
			_, err := c.api.Network.Delete(ctx, n)
			return err
		},
		func(n *hcloud.Network) string { return n.Name },
	); err != nil {
		cleanupErrs.Add(fmt.Errorf("networks: %w", err))
	}
	if err := deleteAll(ctx, c, "placement group",
		func(ctx context.Context) ([]*hcloud.PlacementGroup, error) {
			return c.api.PlacementGroup.AllWithOpts(ctx, hcloud.PlacementGroupListOpts{ListOpts: hcloud.ListOpts{LabelSelector: selector}})
		},
		func(ctx context.Context, pg *hcloud.PlacementGroup) error {
			_, err := c.api.PlacementGroup.Delete(ctx, pg)
			return err
		},
		func(pg *hcloud.PlacementGroup) string { return pg.Name },
	); err != nil {
		cleanupErrs.Add(fmt.Errorf("placement groups: %w", err))
	}

	if cleanupErrs.HasErrors() {
		c.logger.Info("cleanup completed with errors", "selector", selector, "errors", len(cleanupErrs.Errors))
		return cleanupErrs
	}
	c.logger.Info("cleanup complete", "selector", selector)
	return nil
}

// deleteAll lists resources and deletes each one, retrying locked ones.
func deleteAll[T any](
	ctx context.Context,
	c *Client,
	resourceType string,
	list func(context.Context) ([]T, error),
	del func(context.Context, T) error,
	name func(T) string,
) error {
	start := time.Now()
	resources, err := list(ctx)
	observe("list_"+resourceType, start, err)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", resourceType, err)
	}

	var deleteErrs []error
	for _, r := range resources {
		c.logger.Info("deleting resource", "type", resourceType, "name", name(r))
		err := retryDelete(ctx, c, resourceType, func(ctx context.Context) error { return del(ctx, r) })
		if err != nil && !IsNotFound(err) {
			deleteErrs = append(deleteErrs, fmt.Errorf("%s %q: %w", resourceType, name(r), err))
		}
	}
	return errors.Join(deleteErrs...)
}

func retryDelete(ctx context.Context, c *Client, resourceType string, del func(context.Context) error) error {
	return retryDo(ctx, c, func(ctx context.Context) error {
		start := time.Now()
		err := del(ctx)
		observe("delete_"+resourceType, start, err)
		if err != nil {
			return retryable(err)
		}
		return nil
	})
}

// deleteServers deletes the servers and waits until none is left.
func (c *Client) deleteServers(ctx context.Context, selector string) error {
	list := func(ctx context.Context) ([]*hcloud.Server, error) {
		return c.api.Server.AllWithOpts(ctx, hcloud.ServerListOpts{ListOpts: hcloud.ListOpts{LabelSelector: selector}})
	}

	err := deleteAll(ctx, c, "server", list,
		func(ctx context.Context, s *hcloud.Server) error {
			_, _, err := c.api.Server.DeleteWithResult(ctx, s)
			return err
		},
		func(s *hcloud.Server) string { return s.Name },
	)
	if err != nil {
		return err
	}

	for range c.waitAttempts {
		remaining, err := list(ctx)
		if err != nil {
			return fmt.Errorf("failed to check remaining servers: %w", err)
		}
		if len(remaining) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
	return fmt.Errorf("servers matching %s are still present", selector)
}

// deleteFirewalls deletes the firewalls, waiting while they are still
// attached to servers being deleted.
func (c *Client) deleteFirewalls(ctx context.Context, selector string) error {
	firewalls, err := c.api.Firewall.AllWithOpts(ctx, hcloud.FirewallListOpts{ListOpts: hcloud.ListOpts{LabelSelector: selector}})
	if err != nil {
		return fmt.Errorf("failed to list firewalls: %w", err)
	}

	var deleteErrs []error
	for _, fw := range firewalls {
		c.logger.Info("deleting resource", "type", "firewall", "name", fw.Name)
		for attempt := range c.waitAttempts {
			_, err = c.api.Firewall.Delete(ctx, fw)
			if err == nil || IsNotFound(err) {
				err = nil
				break
			}
			if !hcloud.IsError(err, hcloud.ErrorCodeResourceInUse) || attempt == c.waitAttempts-1 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.pollInterval):
			}
		}
		if err != nil {
			deleteErrs = append(deleteErrs, fmt.Errorf("firewall %q: %w", fw.Name, err))
		}
	}
	return errors.Join(deleteErrs...)
}
