package longlist

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/hashgraph/hedera-services-sub126/pkg/blockdevice"

	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type blockDeviceBackedChunkAllocator struct {
	device         blockdevice.BlockDevice
	chunkSizeBytes int64

	lock       sync.Mutex
	closed     bool
	nextOffset int64
}

// NewBlockDeviceBackedChunkAllocator creates a ChunkAllocator that
// stores chunks on a BlockDevice. Slots are read and written directly,
// without caching any of their contents in memory.
//
// Chunks are handed out by increasing offset, causing the underlying
// file to grow. Releasing a chunk only drops its mapping; its space in
// the file is never reused. This means that new chunks never contain
// stale values, and that unwritten slots lie past the end of the file
// or in holes, both of which read as zero.
//
// The allocator takes ownership of the BlockDevice, closing it when
// the allocator is closed.
func NewBlockDeviceBackedChunkAllocator(device blockdevice.BlockDevice, longsPerChunk int) ChunkAllocator {
	return &blockDeviceBackedChunkAllocator{
		device:         device,
		chunkSizeBytes: int64(longsPerChunk) * 8,
	}
}

// NewFileBackedChunkAllocatorFactory returns a ChunkAllocatorFactory
// that creates a file at a given path, and stores chunks in it. Any
// existing contents of the file are discarded. If
// maximumConcurrentWrites is positive, the number of parallel writes
// against the file is limited accordingly.
func NewFileBackedChunkAllocatorFactory(path string, maximumConcurrentWrites int64) ChunkAllocatorFactory {
	return func(longsPerChunk int) (ChunkAllocator, error) {
		device, err := blockdevice.NewGrowableBlockDeviceFromFile(path, true)
		if err != nil {
			return nil, err
		}
		if maximumConcurrentWrites > 0 {
			device = blockdevice.NewWriteConcurrencyLimitingBlockDevice(device, semaphore.NewWeighted(maximumConcurrentWrites))
		}
		return NewBlockDeviceBackedChunkAllocator(device, longsPerChunk), nil
	}
}

// NewFileBackedLongList creates a LongList whose chunks are stored in
// a file at a given path.
func NewFileBackedLongList(parameters Parameters, path string, maximumConcurrentWrites int64) (LongList, error) {
	return NewChunkedLongList(parameters, NewFileBackedChunkAllocatorFactory(path, maximumConcurrentWrites), "File")
}

func (ca *blockDeviceBackedChunkAllocator) NewChunk() (Chunk, error) {
	ca.lock.Lock()
	defer ca.lock.Unlock()

	if ca.closed {
		return nil, status.Error(codes.FailedPrecondition, "Chunk allocator has been closed")
	}
	offset := ca.nextOffset
	ca.nextOffset += ca.chunkSizeBytes
	return &blockDeviceBackedChunk{
		allocator: ca,
		offset:    offset,
	}, nil
}

func (ca *blockDeviceBackedChunkAllocator) OffHeapBytes() int64 {
	return 0
}

func (ca *blockDeviceBackedChunkAllocator) Close() error {
	ca.lock.Lock()
	defer ca.lock.Unlock()

	if ca.closed {
		return nil
	}
	ca.closed = true
	return ca.device.Close()
}

type blockDeviceBackedChunk struct {
	allocator *blockDeviceBackedChunkAllocator
	offset    int64

	// Serializes writes, so that CompareAndSwap() is atomic with
	// respect to Put().
	lock sync.RWMutex
}

func (c *blockDeviceBackedChunk) read(offset int) (int64, error) {
	var slot [8]byte
	if _, err := c.allocator.device.ReadAt(slot[:], c.offset+int64(offset)*8); err != nil && err != io.EOF {
		return 0, err
	}
	// Reads past the end of the file leave the slot zero, which is
	// what unwritten slots hold.
	return int64(binary.LittleEndian.Uint64(slot[:])), nil
}

func (c *blockDeviceBackedChunk) write(offset int, value int64) error {
	var slot [8]byte
	binary.LittleEndian.PutUint64(slot[:], uint64(value))
	_, err := c.allocator.device.WriteAt(slot[:], c.offset+int64(offset)*8)
	return err
}

func (c *blockDeviceBackedChunk) Get(offset int) (int64, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.read(offset)
}

func (c *blockDeviceBackedChunk) Put(offset int, value int64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.write(offset, value)
}

func (c *blockDeviceBackedChunk) CompareAndSwap(offset int, expected, value int64) (bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	current, err := c.read(offset)
	if err != nil {
		return false, err
	}
	if current != expected {
		return false, nil
	}
	if err := c.write(offset, value); err != nil {
		return false, err
	}
	return true, nil
}

func (c *blockDeviceBackedChunk) Release() {
	// Space in the file is not reclaimed.
}
