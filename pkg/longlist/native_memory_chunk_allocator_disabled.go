//go:build !(darwin || freebsd || linux)

package longlist

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NativeMemoryChunkAllocatorFactory is a ChunkAllocatorFactory for
// chunks stored in anonymous memory maps. This implementation is a stub
// for operating systems on which golang.org/x/sys/unix is unavailable.
func NativeMemoryChunkAllocatorFactory(longsPerChunk int) (ChunkAllocator, error) {
	return nil, status.Error(codes.Unimplemented, "Native memory chunks are not supported on this platform")
}

// NewNativeMemoryLongList creates a LongList whose chunks are stored
// in memory that is mapped explicitly, outside of the Go heap.
func NewNativeMemoryLongList(parameters Parameters) (LongList, error) {
	return NewChunkedLongList(parameters, NativeMemoryChunkAllocatorFactory, "NativeMemory")
}
