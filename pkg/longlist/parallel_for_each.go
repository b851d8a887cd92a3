package longlist

import (
	"context"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/status"
)

// ParallelForEach calls into a function for every index in
// [0, list.Size()), using up to a given number of goroutines. The
// index range is split at chunk boundaries, so that every goroutine
// traverses a disjoint set of chunks. Indices within a single range
// are visited in increasing order, but no ordering exists between
// ranges.
//
// Traversal stops as soon as the function returns an error, or when
// the context is canceled.
func ParallelForEach(ctx context.Context, list LongList, parallelism int, fn func(index, value int64) error) error {
	if parallelism < 1 {
		parallelism = 1
	}
	group, groupCtx := errgroup.WithContext(ctx)
	for _, indexRange := range list.SplitAtChunkBoundaries(parallelism) {
		group.Go(func() error {
			return list.ForEachInRange(indexRange, func(index, value int64) error {
				if err := groupCtx.Err(); err != nil {
					return status.FromContextError(err).Err()
				}
				return fn(index, value)
			})
		})
	}
	return group.Wait()
}
