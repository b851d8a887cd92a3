package longlist_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/hashgraph/hedera-services-sub126/pkg/longlist"
	"github.com/hashgraph/hedera-services-sub126/pkg/testutil"
	"github.com/hashgraph/hedera-services-sub126/pkg/util"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestParallelForEach(t *testing.T) {
	list := util.Must(longlist.NewInMemoryLongList(longlist.Parameters{LongsPerChunk: 10, Capacity: 10000}))
	defer list.Close()
	for index := int64(0); index < 1000; index++ {
		require.NoError(t, list.Put(index, index+1))
	}

	t.Run("Success", func(t *testing.T) {
		var count, sum atomic.Int64
		require.NoError(t, longlist.ParallelForEach(context.Background(), list, 4, func(index, value int64) error {
			count.Add(1)
			sum.Add(value)
			return nil
		}))
		require.Equal(t, int64(1000), count.Load())
		require.Equal(t, int64(500500), sum.Load())
	})

	t.Run("Sequential", func(t *testing.T) {
		// A parallelism below one should be treated as one.
		next := int64(0)
		require.NoError(t, longlist.ParallelForEach(context.Background(), list, 0, func(index, value int64) error {
			if index != next {
				return status.Errorf(codes.Internal, "Expected index %d, got %d", next, index)
			}
			next++
			return nil
		}))
		require.Equal(t, int64(1000), next)
	})

	t.Run("Error", func(t *testing.T) {
		err := longlist.ParallelForEach(context.Background(), list, 4, func(index, value int64) error {
			if index == 500 {
				return status.Error(codes.DataLoss, "Value mismatch")
			}
			return nil
		})
		testutil.RequireEqualStatus(t, status.Error(codes.DataLoss, "Value mismatch"), err)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := longlist.ParallelForEach(ctx, list, 4, func(index, value int64) error {
			return nil
		})
		require.Equal(t, codes.Canceled, status.Code(err))
	})
}
