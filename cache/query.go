package cache

import (
	"context"
	"fmt"
)

// Query bundles a cache key, its policy and the function that loads it.
type Query[T any] struct {
	Key    Key
	Policy Policy
	Fetch  func(context.Context) (T, error)
}

// Fetch resolves q through c under q's policy.
func Fetch[T any](ctx context.Context, c *Cache, q Query[T]) (T, error) {
	policy := q.Policy
	v, err := c.get(ctx, q.Key, &policy, func(ctx context.Context) (any, error) {
		return q.Fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %s holds %T, not %T", q.Key, v, zero)
	}
	return typed, nil
}

// Prime stores value for q without fetching, e.g. after a mutation returns it.
func Prime[T any](c *Cache, q Query[T], value T) {
	policy := q.Policy
	c.set(q.Key, value, &policy)
}
