package worker

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Group launches one unit of work per item and joins on all of them.
// Every item yields exactly one result: a panicking unit is converted by
// Recover (or reported as the zero value when Recover is nil).
type Group[T, R any] struct {
	Limit   int // max in-flight units, <= 0 means unbounded
	Recover func(item T, err error) R
}

// Run blocks until every unit finished and returns results in input order.
func (g Group[T, R]) Run(ctx context.Context, items []T, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))

	var eg errgroup.Group
	if g.Limit > 0 {
		eg.SetLimit(g.Limit)
	}
	for i, item := range items {
		i, item := i, item
		eg.Go(func() error {
			results[i] = g.call(ctx, item, fn)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

// Stream launches every unit and delivers results in completion order.
// The channel is closed after the last result.
func (g Group[T, R]) Stream(ctx context.Context, items []T, fn func(context.Context, T) R) <-chan R {
	out := make(chan R, len(items))

	go func() {
		defer close(out)

		var eg errgroup.Group
		if g.Limit > 0 {
			eg.SetLimit(g.Limit)
		}
		for _, item := range items {
			item := item
			eg.Go(func() error {
				out <- g.call(ctx, item, fn)
				return nil
			})
		}
		_ = eg.Wait()
	}()

	return out
}

func (g Group[T, R]) call(ctx context.Context, item T, fn func(context.Context, T) R) (res R) {
	defer func() {
		if p := recover(); p != nil {
			var zero R
			res = zero
			if g.Recover != nil {
				res = g.Recover(item, fmt.Errorf("panic: %v", p))
			}
		}
	}()
	return fn(ctx, item)
}
