package hcloud

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/shadracnicholas/engine/internal/util/retry"
)

// created is the outcome of a create call and the actions to wait for.
type created[T any] struct {
	Resource T
	Actions  []*hcloud.Action
}

// ensureOperation gets a resource by name and creates it when missing.
type ensureOperation[T any, Opts any] struct {
	Name         string
	ResourceType string

	Get    func(ctx context.Context, name string) (T, *hcloud.Response, error)
	Create func(ctx context.Context, opts Opts) (*created[T], error)
	// Validate checks an existing resource matches the desired state.
	Validate func(resource T) error
	Opts     func() Opts
}

func (op *ensureOperation[T, Opts]) execute(ctx context.Context, c *Client) (T, error) {
	var result T
	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		start := time.Now()
		existing, _, err := op.Get(ctx, op.Name)
		observe("get_"+op.ResourceType, start, err)
		if err != nil {
			return retryable(fmt.Errorf("failed to get %s %s: %w", op.ResourceType, op.Name, err))
		}

		if !isNil(existing) {
			if op.Validate != nil {
				if err := op.Validate(existing); err != nil {
					return retry.Fatal(err)
				}
			}
			result = existing
			return nil
		}

		start = time.Now()
		res, err := op.Create(ctx, op.Opts())
		observe("create_"+op.ResourceType, start, err)
		if err != nil {
			return retryable(fmt.Errorf("failed to create %s %s: %w", op.ResourceType, op.Name, err))
		}
		if len(res.Actions) > 0 {
			if err := c.api.Action.WaitFor(ctx, res.Actions...); err != nil {
				return retry.Fatal(fmt.Errorf("failed to wait for %s %s creation: %w", op.ResourceType, op.Name, err))
			}
		}
		c.logger.Info("created resource", "type", op.ResourceType, "name", op.Name)
		result = res.Resource
		return nil
	})
	return result, err
}

// retryable keeps locked-resource errors retryable and marks the rest fatal.
func retryable(err error) error {
	if isResourceLocked(err) {
		return err
	}
	return retry.Fatal(err)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
