//go:build darwin || freebsd || linux

package longlist

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/hashgraph/hedera-services-sub126/pkg/util"
	"github.com/prometheus/client_golang/prometheus"

	"golang.org/x/sys/unix"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	nativeMemoryChunkAllocatorPrometheusMetrics sync.Once

	nativeMemoryChunkAllocatorMappedBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "merkledb",
			Subsystem: "long_list",
			Name:      "native_memory_mapped_bytes",
			Help:      "Number of bytes of chunks currently mapped by NativeMemoryChunkAllocator",
		})
)

type nativeMemoryChunkAllocator struct {
	longsPerChunk  int
	chunkSizeBytes int
	allocatedBytes atomic.Int64

	lock   sync.Mutex
	closed bool
	chunks map[*nativeMemoryChunk]struct{}
}

// NewNativeMemoryChunkAllocator creates a ChunkAllocator that stores
// chunks in anonymous memory maps. Memory of these chunks is not
// managed by the Go runtime. It is returned to the operating system
// as soon as a chunk is released, as opposed to whenever the garbage
// collector decides to run.
func NewNativeMemoryChunkAllocator(longsPerChunk int) ChunkAllocator {
	nativeMemoryChunkAllocatorPrometheusMetrics.Do(func() {
		prometheus.MustRegister(nativeMemoryChunkAllocatorMappedBytes)
	})

	return &nativeMemoryChunkAllocator{
		longsPerChunk:  longsPerChunk,
		chunkSizeBytes: longsPerChunk * 8,
		chunks:         map[*nativeMemoryChunk]struct{}{},
	}
}

// NativeMemoryChunkAllocatorFactory is a ChunkAllocatorFactory for
// NewNativeMemoryChunkAllocator().
func NativeMemoryChunkAllocatorFactory(longsPerChunk int) (ChunkAllocator, error) {
	return NewNativeMemoryChunkAllocator(longsPerChunk), nil
}

func (ca *nativeMemoryChunkAllocator) NewChunk() (Chunk, error) {
	ca.lock.Lock()
	defer ca.lock.Unlock()

	if ca.closed {
		return nil, status.Error(codes.FailedPrecondition, "Chunk allocator has been closed")
	}
	data, err := unix.Mmap(-1, 0, ca.chunkSizeBytes, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, util.StatusWrapfWithCode(err, codes.ResourceExhausted, "Failed to map %d bytes of memory", ca.chunkSizeBytes)
	}

	// Memory maps are page aligned, meaning the slots are suitably
	// aligned for atomic access.
	c := &nativeMemoryChunk{
		allocator: ca,
		data:      data,
	}
	c.sliceChunk.slots = unsafe.Slice((*int64)(unsafe.Pointer(&data[0])), ca.longsPerChunk)
	c.sliceChunk.release = c.unmap
	ca.chunks[c] = struct{}{}
	ca.allocatedBytes.Add(int64(ca.chunkSizeBytes))
	nativeMemoryChunkAllocatorMappedBytes.Add(float64(ca.chunkSizeBytes))
	return &c.sliceChunk, nil
}

func (ca *nativeMemoryChunkAllocator) OffHeapBytes() int64 {
	return ca.allocatedBytes.Load()
}

func (ca *nativeMemoryChunkAllocator) Close() error {
	ca.lock.Lock()
	defer ca.lock.Unlock()

	ca.closed = true
	var errs []error
	for c := range ca.chunks {
		if err := ca.unmapLocked(c); err != nil {
			errs = append(errs, err)
		}
	}
	return util.StatusFromMultiple(errs)
}

func (ca *nativeMemoryChunkAllocator) unmapLocked(c *nativeMemoryChunk) error {
	if _, ok := ca.chunks[c]; !ok {
		return nil
	}
	delete(ca.chunks, c)
	ca.allocatedBytes.Add(-int64(len(c.data)))
	nativeMemoryChunkAllocatorMappedBytes.Sub(float64(len(c.data)))
	if err := unix.Munmap(c.data); err != nil {
		return util.StatusWrapWithCode(err, codes.Internal, "Failed to unmap chunk")
	}
	return nil
}

type nativeMemoryChunk struct {
	sliceChunk
	allocator *nativeMemoryChunkAllocator
	data      []byte
}

func (c *nativeMemoryChunk) unmap() {
	ca := c.allocator
	ca.lock.Lock()
	defer ca.lock.Unlock()

	if err := ca.unmapLocked(c); err != nil {
		panic(fmt.Sprintf("Release(): %s", err))
	}
}

// NewNativeMemoryLongList creates a LongList whose chunks are stored
// in memory that is mapped explicitly, outside of the Go heap.
func NewNativeMemoryLongList(parameters Parameters) (LongList, error) {
	return NewChunkedLongList(parameters, NativeMemoryChunkAllocatorFactory, "NativeMemory")
}
