package longlist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashgraph/hedera-services-sub126/pkg/longlist"
	"github.com/hashgraph/hedera-services-sub126/pkg/testutil"
	"github.com/hashgraph/hedera-services-sub126/pkg/util"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestSnapshotRoundTrip(t *testing.T) {
	for _, backend := range []struct {
		name             string
		allocatorFactory func(t *testing.T) longlist.ChunkAllocatorFactory
		storageType      string
	}{
		{
			name: "InMemory",
			allocatorFactory: func(t *testing.T) longlist.ChunkAllocatorFactory {
				return longlist.InMemoryChunkAllocatorFactory
			},
			storageType: "InMemory",
		},
		{
			name: "NativeMemory",
			allocatorFactory: func(t *testing.T) longlist.ChunkAllocatorFactory {
				return longlist.NativeMemoryChunkAllocatorFactory
			},
			storageType: "NativeMemory",
		},
		{
			name: "File",
			allocatorFactory: func(t *testing.T) longlist.ChunkAllocatorFactory {
				return longlist.NewFileBackedChunkAllocatorFactory(filepath.Join(t.TempDir(), "chunks"), 0)
			},
			storageType: "File",
		},
	} {
		t.Run(backend.name, func(t *testing.T) {
			list := util.Must(longlist.NewChunkedLongList(
				longlist.Parameters{LongsPerChunk: 3, Capacity: 1000, ReservedBufferLength: 1},
				backend.allocatorFactory(t),
				backend.storageType))
			for index := int64(0); index < 9; index++ {
				require.NoError(t, list.Put(index, index+1))
			}
			require.NoError(t, list.UpdateValidRange(7, 8))

			path := filepath.Join(t.TempDir(), "snapshot")
			require.NoError(t, list.WriteSnapshot(path))
			require.NoError(t, list.Close())

			// Only values starting at the minimum valid index
			// are stored.
			fileInfo, err := os.Stat(path)
			require.NoError(t, err)
			require.Equal(t, int64(24+2*8), fileInfo.Size())
			_, err = os.Stat(path + ".tmp")
			require.True(t, os.IsNotExist(err))

			header, err := longlist.ReadSnapshotHeader(path)
			require.NoError(t, err)
			require.Equal(t, longlist.SnapshotHeader{
				FormatVersion: longlist.SnapshotFormatVersionCurrent,
				LongsPerChunk: 3,
				Capacity:      1000,
				MinValidIndex: 7,
				Size:          9,
			}, header)

			restored, err := longlist.NewLongListFromSnapshot(path, 1, backend.allocatorFactory(t), backend.storageType)
			require.NoError(t, err)
			defer restored.Close()

			require.Equal(t, 3, restored.LongsPerChunk())
			require.Equal(t, int64(1000), restored.Capacity())
			require.Equal(t, int64(9), restored.Size())
			require.Equal(t, int64(7), restored.MinValidIndex())
			require.Equal(t, 1, restored.AllocatedChunkCount())
			for index, expectedValue := range map[int64]int64{
				0: -1,
				6: -1,
				7: 8,
				8: 9,
				9: -1,
			} {
				value, err := restored.Get(index, -1)
				require.NoError(t, err)
				require.Equal(t, expectedValue, value, "Index %d", index)
			}

			// Restored lists must remain writable.
			require.NoError(t, restored.Put(9, 10))
			require.Equal(t, int64(10), restored.Size())
		})
	}
}

func TestSnapshotMinValidIndexBeyondSize(t *testing.T) {
	list := util.Must(longlist.NewInMemoryLongList(longlist.Parameters{LongsPerChunk: 3, Capacity: 1000}))
	defer list.Close()

	for index := int64(0); index < 9; index++ {
		require.NoError(t, list.Put(index, index+1))
	}
	require.NoError(t, list.UpdateValidRange(20, 999))

	path := filepath.Join(t.TempDir(), "snapshot")
	require.NoError(t, list.WriteSnapshot(path))

	header, err := longlist.ReadSnapshotHeader(path)
	require.NoError(t, err)
	require.Equal(t, int64(9), header.MinValidIndex)
	require.Equal(t, int64(9), header.Size)

	restored, err := longlist.NewLongListFromSnapshot(path, 0, longlist.InMemoryChunkAllocatorFactory, "InMemory")
	require.NoError(t, err)
	defer restored.Close()
	require.Equal(t, int64(9), restored.Size())
	require.Equal(t, 0, restored.AllocatedChunkCount())
}

func TestSnapshotEmptyList(t *testing.T) {
	list := util.Must(longlist.NewInMemoryLongList(longlist.Parameters{LongsPerChunk: 16, Capacity: 0}))
	defer list.Close()

	path := filepath.Join(t.TempDir(), "snapshot")
	require.NoError(t, list.WriteSnapshot(path))

	restored, err := longlist.NewLongListFromSnapshot(path, 0, longlist.InMemoryChunkAllocatorFactory, "InMemory")
	require.NoError(t, err)
	defer restored.Close()
	require.Equal(t, int64(0), restored.Capacity())
	require.Equal(t, int64(0), restored.Size())
}

func writeSnapshotFile(t *testing.T, contents []byte) string {
	path := filepath.Join(t.TempDir(), "snapshot")
	require.NoError(t, os.WriteFile(path, contents, 0o666))
	return path
}

func TestSnapshotLegacyFormat(t *testing.T) {
	path := writeSnapshotFile(t, []byte{
		// Format version.
		0x01, 0x00, 0x00, 0x00,
		// Longs per chunk.
		0x02, 0x00, 0x00, 0x00,
		// Capacity.
		0x0a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		// Values.
		0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	})

	header, err := longlist.ReadSnapshotHeader(path)
	require.NoError(t, err)
	require.Equal(t, longlist.SnapshotHeader{
		FormatVersion: longlist.SnapshotFormatVersionLegacy,
		LongsPerChunk: 2,
		Capacity:      10,
		MinValidIndex: 0,
		Size:          3,
	}, header)

	list, err := longlist.NewLongListFromSnapshot(path, 0, longlist.InMemoryChunkAllocatorFactory, "InMemory")
	require.NoError(t, err)
	defer list.Close()

	require.Equal(t, int64(3), list.Size())
	require.Equal(t, int64(0), list.MinValidIndex())
	require.Equal(t, 2, list.AllocatedChunkCount())
	for index, expectedValue := range map[int64]int64{0: 5, 1: 42, 2: -1} {
		value, err := list.Get(index, 42)
		require.NoError(t, err)
		require.Equal(t, expectedValue, value, "Index %d", index)
	}

	// Writing the list back should yield a snapshot in the
	// current format.
	require.NoError(t, list.WriteSnapshot(path))
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x02, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x0a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	}, contents)
}

func TestSnapshotInvalid(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		_, err := longlist.NewLongListFromSnapshot(filepath.Join(t.TempDir(), "nonexistent"), 0, longlist.InMemoryChunkAllocatorFactory, "InMemory")
		require.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := longlist.ReadSnapshotHeader(writeSnapshotFile(t, nil))
		testutil.RequireEqualStatus(t, status.Error(codes.DataLoss, "Snapshot is 0 bytes in size, which is too small to contain a format version"), err)
	})

	t.Run("UnsupportedVersion", func(t *testing.T) {
		_, err := longlist.NewLongListFromSnapshot(
			writeSnapshotFile(t, []byte{
				0x03, 0x00, 0x00, 0x00,
				0x02, 0x00, 0x00, 0x00,
				0x0a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			}),
			0,
			longlist.InMemoryChunkAllocatorFactory,
			"InMemory")
		testutil.RequireEqualStatus(t, status.Error(codes.Unimplemented, "Snapshot has unsupported format version 3"), err)
	})

	t.Run("TruncatedHeader", func(t *testing.T) {
		_, err := longlist.NewLongListFromSnapshot(
			writeSnapshotFile(t, []byte{
				0x02, 0x00, 0x00, 0x00,
				0x02, 0x00, 0x00, 0x00,
				0x0a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00,
			}),
			0,
			longlist.InMemoryChunkAllocatorFactory,
			"InMemory")
		testutil.RequireEqualStatus(t, status.Error(codes.DataLoss, "Snapshot is 20 bytes in size, while its header is 24 bytes in size"), err)
	})

	t.Run("TruncatedPayload", func(t *testing.T) {
		_, err := longlist.NewLongListFromSnapshot(
			writeSnapshotFile(t, []byte{
				0x02, 0x00, 0x00, 0x00,
				0x02, 0x00, 0x00, 0x00,
				0x0a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x05, 0x00, 0x00, 0x00, 0x00,
			}),
			0,
			longlist.InMemoryChunkAllocatorFactory,
			"InMemory")
		testutil.RequireEqualStatus(t, status.Error(codes.DataLoss, "Snapshot payload is 5 bytes in size, which is not a multiple of 8 bytes"), err)
	})

	t.Run("PayloadExceedsCapacity", func(t *testing.T) {
		_, err := longlist.NewLongListFromSnapshot(
			writeSnapshotFile(t, []byte{
				0x01, 0x00, 0x00, 0x00,
				0x02, 0x00, 0x00, 0x00,
				0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x06, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			}),
			0,
			longlist.InMemoryChunkAllocatorFactory,
			"InMemory")
		testutil.RequireEqualStatus(t, status.Error(codes.DataLoss, "Snapshot contains values up to index 1, which exceeds its capacity of 1"), err)
	})

	t.Run("InvalidParameters", func(t *testing.T) {
		path := writeSnapshotFile(t, []byte{
			0x02, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
			0x0a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		})
		_, err := longlist.NewLongListFromSnapshot(path, 0, longlist.InMemoryChunkAllocatorFactory, "InMemory")
		testutil.RequirePrefixedStatus(t, status.Error(codes.InvalidArgument, "Invalid parameters in snapshot"), err)
	})

	t.Run("TooManyChunks", func(t *testing.T) {
		path := writeSnapshotFile(t, []byte{
			0x02, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x10, 0x00,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		})
		_, err := longlist.NewLongListFromSnapshot(path, 0, longlist.InMemoryChunkAllocatorFactory, "InMemory")
		testutil.RequirePrefixedStatus(t, status.Error(codes.InvalidArgument, "Invalid parameters in snapshot"), err)
	})
}
