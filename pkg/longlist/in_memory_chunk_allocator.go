package longlist

type inMemoryChunkAllocator struct {
	longsPerChunk int
}

// NewInMemoryChunkAllocator creates a ChunkAllocator that stores chunks
// in slices allocated by the Go runtime. Released chunks are reclaimed
// by the garbage collector.
func NewInMemoryChunkAllocator(longsPerChunk int) ChunkAllocator {
	return &inMemoryChunkAllocator{
		longsPerChunk: longsPerChunk,
	}
}

// InMemoryChunkAllocatorFactory is a ChunkAllocatorFactory for
// NewInMemoryChunkAllocator().
func InMemoryChunkAllocatorFactory(longsPerChunk int) (ChunkAllocator, error) {
	return NewInMemoryChunkAllocator(longsPerChunk), nil
}

func (ca *inMemoryChunkAllocator) NewChunk() (Chunk, error) {
	return &sliceChunk{
		slots: make([]int64, ca.longsPerChunk),
	}, nil
}

func (ca *inMemoryChunkAllocator) OffHeapBytes() int64 {
	return 0
}

func (ca *inMemoryChunkAllocator) Close() error {
	return nil
}

// NewInMemoryLongList creates a LongList whose chunks are stored in
// memory managed by the Go runtime.
func NewInMemoryLongList(parameters Parameters) (LongList, error) {
	return NewChunkedLongList(parameters, InMemoryChunkAllocatorFactory, "InMemory")
}
