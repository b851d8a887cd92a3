package longlist

import (
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ImpermissibleValue is the value of slots that have never been
// written. It cannot be stored explicitly.
const ImpermissibleValue int64 = 0

// MaximumChunkCount is the largest number of chunks a LongList may be
// partitioned into. The capacity of a LongList is thus bounded by
// MaximumChunkCount times the number of longs per chunk.
const MaximumChunkCount = 32768

// IndexRange is a half-open range [Start, End) of indices.
type IndexRange struct {
	Start int64
	End   int64
}

// LongList is a densely indexed array of 64-bit values that may hold
// hundreds of millions of entries. It is used to map paths of a virtual
// Merkle tree to the location at which the corresponding record is
// stored.
//
// Storage is partitioned into chunks of fixed size, which are allocated
// lazily upon first write. As the tree is compacted, the minimum valid
// index advances. Chunks that lie entirely below the minimum valid
// index (minus a reserved buffer) are released.
//
// All methods may be called concurrently, with the exception of
// UpdateValidRange(), which is expected to be called by a single
// goroutine at a time.
type LongList interface {
	// Get the value stored at an index. The default value is
	// returned if the index lies outside the valid range, or if the
	// slot has never been written. Get never allocates storage.
	Get(index, defaultValue int64) (int64, error)
	// Put a value at an index. Writing at an index below the
	// minimum valid index is a programming error, causing a panic.
	Put(index, value int64) error
	// PutIfEqual atomically replaces the value at an index if it
	// is equal to the expected value. Slots that have never been
	// written compare equal to ImpermissibleValue.
	PutIfEqual(index, expected, value int64) (bool, error)

	// Size returns one past the highest index ever written.
	Size() int64
	// Capacity returns the number of indices that can be written.
	Capacity() int64
	LongsPerChunk() int
	MinValidIndex() int64
	MaxValidIndex() int64
	// UpdateValidRange adjusts the range of indices that hold
	// meaningful data, releasing chunks that have fallen out of
	// the range retained by the reserved buffer.
	UpdateValidRange(minValidIndex, maxValidIndex int64) error

	// ForEach calls into a function for every index in [0, Size()),
	// providing ImpermissibleValue for slots without a value.
	ForEach(fn func(index, value int64) error) error
	// ForEachInRange is identical to ForEach, except that only a
	// subrange of indices is visited.
	ForEachInRange(indexRange IndexRange, fn func(index, value int64) error) error
	// SplitAtChunkBoundaries partitions [0, Size()) into at most
	// the provided number of ranges, such that no chunk is shared
	// between ranges.
	SplitAtChunkBoundaries(parts int) []IndexRange

	// AllocatedChunkCount returns the number of chunks that are
	// currently backed by storage.
	//
	// Eviction never releases the chunk containing index Size()-1,
	// so this is non-zero for lists that obtained their size through
	// writes. A list restored from a snapshot has the snapshot's
	// size, but only allocates chunks for values that were present.
	// If the trailing values were absent, the count may be zero
	// while Size() is not.
	AllocatedChunkCount() int
	// OffHeapConsumptionBytes returns the number of bytes that are
	// currently allocated outside of memory managed by the Go
	// runtime. This is only non-zero for lists backed by native
	// memory.
	OffHeapConsumptionBytes() int64

	// WriteSnapshot writes the contents of the list to a file, so
	// that it may be reloaded using NewLongListFromSnapshot().
	WriteSnapshot(path string) error

	// Close releases all chunks and any resources held by the
	// chunk allocator.
	Close() error
}

// Parameters that need to be provided upon construction of a LongList.
type Parameters struct {
	// The number of values stored in a single chunk.
	LongsPerChunk int
	// The maximum number of values that can be stored.
	Capacity int64
	// The number of indices below the minimum valid index whose
	// chunks should remain allocated.
	ReservedBufferLength int64
}

// chunkCount validates the parameters, returning the number of chunks
// needed to store Capacity values.
func (p *Parameters) chunkCount() (int, error) {
	if p.LongsPerChunk <= 0 {
		return 0, status.Errorf(codes.InvalidArgument, "Number of longs per chunk must be positive, but is %d", p.LongsPerChunk)
	}
	if int64(p.LongsPerChunk)*8 > math.MaxInt32 {
		return 0, status.Errorf(codes.ResourceExhausted, "Chunks of %d longs would have a size in bytes that does not fit in a 32-bit integer", p.LongsPerChunk)
	}
	if p.Capacity < 0 {
		return 0, status.Errorf(codes.InvalidArgument, "Capacity must be non-negative, but is %d", p.Capacity)
	}
	if p.ReservedBufferLength < 0 {
		return 0, status.Errorf(codes.InvalidArgument, "Reserved buffer length must be non-negative, but is %d", p.ReservedBufferLength)
	}
	longsPerChunk := int64(p.LongsPerChunk)
	chunkCount := p.Capacity / longsPerChunk
	if p.Capacity%longsPerChunk != 0 {
		chunkCount++
	}
	if chunkCount > MaximumChunkCount {
		return 0, status.Errorf(codes.InvalidArgument, "A capacity of %d with %d longs per chunk requires %d chunks, which exceeds the maximum of %d", p.Capacity, p.LongsPerChunk, chunkCount, MaximumChunkCount)
	}
	return int(chunkCount), nil
}
