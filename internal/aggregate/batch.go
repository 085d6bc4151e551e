// Package aggregate builds the per-address views (fungible tokens, NFTs,
// recent transfers) from a data provider. Discovery failures are returned
// to the caller; per-item enrichment failures only leave fields empty.
package aggregate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// inBatches calls fn for every item in consecutive groups of size. Items
// of a group run concurrently and a group starts once the previous one
// has finished. fn reports nothing back; it records its own result.
func inBatches[T any](ctx context.Context, items []T, size int, fn func(ctx context.Context, i int, item T)) error {
	if size <= 0 {
		size = 1
	}
	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+size, len(items))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				fn(ctx, i, items[i])
				return nil
			})
		}
		_ = g.Wait()
	}
	return nil
}
