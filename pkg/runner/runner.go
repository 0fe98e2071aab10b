// Package runner runs independent units of work on a bounded pool and
// collects one result per unit. A failing unit never cancels its siblings.
package runner

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one unit.
type Result[T any] struct {
	Item T
	Err  error
}

// Failed returns the results that carry an error.
func Failed[T any](results []Result[T]) []Result[T] {
	var failed []Result[T]
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// ForEach runs fn over items with at most limit units in flight (limit < 1
// means 1). Results are returned in input order. Once ctx is done, units that
// have not started are recorded with ctx's error.
func ForEach[T any](ctx context.Context, items []T, limit int, fn func(context.Context, T) error) []Result[T] {
	if limit < 1 {
		limit = 1
	}
	results := make([]Result[T], len(items))

	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			results[i].Item = item
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Err = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// ForEachGroup partitions items by key, runs the groups in ascending key
// order and each group's members on a pool of size limit. Order inside a
// group is unspecified unless limit is 1, in which case items run in
// ascending key order and stable input order within a key.
func ForEachGroup[T any](ctx context.Context, items []T, key func(T) int, limit int, fn func(context.Context, T) error) []Result[T] {
	groups := map[int][]T{}
	var keys []int
	for _, item := range items {
		k := key(item)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], item)
	}
	sort.Ints(keys)

	results := make([]Result[T], 0, len(items))
	for _, k := range keys {
		results = append(results, ForEach(ctx, groups[k], limit, fn)...)
	}
	return results
}

// Collector gathers values from concurrent units.
type Collector[T any] struct {
	mu     sync.Mutex
	values []T
}

// Add appends v.
func (c *Collector[T]) Add(v T) {
	c.mu.Lock()
	c.values = append(c.values, v)
	c.mu.Unlock()
}

// Values returns the collected values.
func (c *Collector[T]) Values() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.values...)
}
