package longlist

// Chunk of storage, holding a fixed number of 64-bit slots. Slots of a
// newly allocated chunk are zero, which corresponds to
// ImpermissibleValue.
//
// Implementations must allow Get(), Put() and CompareAndSwap() to be
// called concurrently. CompareAndSwap() must be atomic with respect to
// Put() and other calls to CompareAndSwap() against the same slot.
type Chunk interface {
	Get(offset int) (int64, error)
	Put(offset int, value int64) error
	CompareAndSwap(offset int, expected, value int64) (bool, error)

	// Release the storage backing the chunk. This is called exactly
	// once, after which no other methods are called.
	Release()
}

// ChunkAllocator is the storage medium of a LongList. Chunks created
// by the allocator all have the same size.
type ChunkAllocator interface {
	NewChunk() (Chunk, error)

	// OffHeapBytes returns the number of bytes of chunks that are
	// currently allocated outside of memory managed by the Go
	// runtime.
	OffHeapBytes() int64

	// Close the allocator. All chunks will have been released by
	// the time this is called.
	Close() error
}

// ChunkAllocatorFactory creates a ChunkAllocator that hands out chunks
// containing a given number of longs. LongList calls into the factory
// only after validating its parameters, so that no resources are
// acquired for lists that cannot be constructed.
type ChunkAllocatorFactory func(longsPerChunk int) (ChunkAllocator, error)
