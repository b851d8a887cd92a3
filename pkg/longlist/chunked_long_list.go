package longlist

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hashgraph/hedera-services-sub126/pkg/util"
	"github.com/prometheus/client_golang/prometheus"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	chunkedLongListPrometheusMetrics sync.Once

	chunkedLongListChunkAllocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "merkledb",
			Subsystem: "long_list",
			Name:      "chunk_allocations_total",
			Help:      "Number of times chunks of a LongList were allocated",
		},
		[]string{"storage_type"})
	chunkedLongListChunkReleases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "merkledb",
			Subsystem: "long_list",
			Name:      "chunk_releases_total",
			Help:      "Number of times chunks of a LongList were released",
		},
		[]string{"storage_type"})
	chunkedLongListChunkEvictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "merkledb",
			Subsystem: "long_list",
			Name:      "chunk_evictions_total",
			Help:      "Number of chunks of a LongList that were released, because they fell below the minimum valid index",
		},
		[]string{"storage_type"})
)

type chunkedLongList struct {
	longsPerChunk int64
	capacity      int64
	allocator     ChunkAllocator
	table         *chunkTable
	validRange    validRange
	size          atomic.Int64
	closed        atomic.Bool

	evictions prometheus.Counter
}

// NewChunkedLongList creates a LongList that partitions its storage
// into chunks. Chunks are obtained from a ChunkAllocator, which is
// created by calling into the provided factory after the parameters
// have been validated. The storage type is used to label metrics.
func NewChunkedLongList(parameters Parameters, allocatorFactory ChunkAllocatorFactory, storageType string) (LongList, error) {
	ll, err := newChunkedLongList(parameters, allocatorFactory, storageType)
	if err != nil {
		return nil, err
	}
	return ll, nil
}

func newChunkedLongList(parameters Parameters, allocatorFactory ChunkAllocatorFactory, storageType string) (*chunkedLongList, error) {
	chunkedLongListPrometheusMetrics.Do(func() {
		prometheus.MustRegister(chunkedLongListChunkAllocations)
		prometheus.MustRegister(chunkedLongListChunkReleases)
		prometheus.MustRegister(chunkedLongListChunkEvictions)
	})

	chunkCount, err := parameters.chunkCount()
	if err != nil {
		return nil, err
	}
	allocator, err := allocatorFactory(parameters.LongsPerChunk)
	if err != nil {
		return nil, util.StatusWrap(err, "Failed to create chunk allocator")
	}

	ll := &chunkedLongList{
		longsPerChunk: int64(parameters.LongsPerChunk),
		capacity:      parameters.Capacity,
		allocator:     allocator,
		table: newChunkTable(
			chunkCount,
			chunkedLongListChunkAllocations.WithLabelValues(storageType),
			chunkedLongListChunkReleases.WithLabelValues(storageType)),
		evictions: chunkedLongListChunkEvictions.WithLabelValues(storageType),
	}
	ll.validRange.initialize(ll.longsPerChunk, parameters.ReservedBufferLength, parameters.Capacity-1)
	return ll, nil
}

func (ll *chunkedLongList) checkWritable(index, value int64) error {
	if index < 0 || index >= ll.capacity {
		return status.Errorf(codes.OutOfRange, "Index %d is outside the range [0, %d)", index, ll.capacity)
	}
	if value == ImpermissibleValue {
		return status.Errorf(codes.InvalidArgument, "Value %d cannot be stored, as it denotes an unwritten slot", value)
	}
	if ll.closed.Load() {
		return status.Error(codes.FailedPrecondition, "Long list has been closed")
	}

	// Callers only write at indices inside the valid range they
	// established themselves. Anything else is a bug in the caller,
	// and may not be handled by returning an error.
	if minimum := ll.validRange.minimum.Load(); index < minimum {
		panic(fmt.Sprintf("Attempted to write index %d, which lies below minimum valid index %d", index, minimum))
	}
	return nil
}

// growSize raises the size of the list to include an index that was
// written.
func (ll *chunkedLongList) growSize(size int64) {
	for {
		oldSize := ll.size.Load()
		if size <= oldSize || ll.size.CompareAndSwap(oldSize, size) {
			return
		}
	}
}

func (ll *chunkedLongList) Get(index, defaultValue int64) (int64, error) {
	if index < 0 {
		return 0, status.Errorf(codes.OutOfRange, "Index %d is negative", index)
	}
	if index >= ll.size.Load() || index < ll.validRange.minimum.Load() {
		return defaultValue, nil
	}
	e := ll.table.acquire(int(index / ll.longsPerChunk))
	if e == nil {
		return defaultValue, nil
	}
	value, err := e.chunk.Get(int(index % ll.longsPerChunk))
	e.release()
	if err != nil {
		return 0, util.StatusWrapf(err, "Failed to read index %d", index)
	}
	if value == ImpermissibleValue {
		return defaultValue, nil
	}
	return value, nil
}

func (ll *chunkedLongList) Put(index, value int64) error {
	if err := ll.checkWritable(index, value); err != nil {
		return err
	}
	e, err := ll.table.acquireOrCreate(int(index/ll.longsPerChunk), ll.allocator)
	if err != nil {
		return util.StatusWrapf(err, "Failed to allocate chunk for index %d", index)
	}
	err = e.chunk.Put(int(index%ll.longsPerChunk), value)
	e.release()
	if err != nil {
		return util.StatusWrapf(err, "Failed to write index %d", index)
	}
	ll.growSize(index + 1)
	return nil
}

func (ll *chunkedLongList) PutIfEqual(index, expected, value int64) (bool, error) {
	if err := ll.checkWritable(index, value); err != nil {
		return false, err
	}
	ordinal := int(index / ll.longsPerChunk)
	e := ll.table.acquire(ordinal)
	if e == nil {
		// Slots of absent chunks are unwritten. Only allocate a
		// chunk if the comparison is going to succeed.
		if expected != ImpermissibleValue {
			return false, nil
		}
		var err error
		e, err = ll.table.acquireOrCreate(ordinal, ll.allocator)
		if err != nil {
			return false, util.StatusWrapf(err, "Failed to allocate chunk for index %d", index)
		}
	}
	swapped, err := e.chunk.CompareAndSwap(int(index%ll.longsPerChunk), expected, value)
	e.release()
	if err != nil {
		return false, util.StatusWrapf(err, "Failed to update index %d", index)
	}
	if swapped {
		ll.growSize(index + 1)
	}
	return swapped, nil
}

func (ll *chunkedLongList) Size() int64 {
	return ll.size.Load()
}

func (ll *chunkedLongList) Capacity() int64 {
	return ll.capacity
}

func (ll *chunkedLongList) LongsPerChunk() int {
	return int(ll.longsPerChunk)
}

func (ll *chunkedLongList) MinValidIndex() int64 {
	return ll.validRange.minimum.Load()
}

func (ll *chunkedLongList) MaxValidIndex() int64 {
	return ll.validRange.maximum.Load()
}

func (ll *chunkedLongList) UpdateValidRange(minValidIndex, maxValidIndex int64) error {
	if minValidIndex < 0 {
		return status.Errorf(codes.OutOfRange, "Minimum valid index %d is negative", minValidIndex)
	}
	if maxValidIndex >= ll.capacity {
		return status.Errorf(codes.OutOfRange, "Maximum valid index %d is not below capacity %d", maxValidIndex, ll.capacity)
	}
	if maxValidIndex < minValidIndex-1 {
		return status.Errorf(codes.OutOfRange, "Maximum valid index %d lies more than one below minimum valid index %d", maxValidIndex, minValidIndex)
	}
	if ll.closed.Load() {
		return status.Error(codes.FailedPrecondition, "Long list has been closed")
	}

	// Publish the new range before releasing any chunks, so that
	// readers stop looking at indices that are about to disappear.
	ll.validRange.set(minValidIndex, maxValidIndex)
	firstRetained, keep := ll.validRange.evictableChunks(minValidIndex, ll.size.Load())
	if freed := ll.table.freeBelow(firstRetained, keep); freed > 0 {
		ll.evictions.Add(float64(freed))
	}
	return nil
}

func (ll *chunkedLongList) ForEach(fn func(index, value int64) error) error {
	return ll.ForEachInRange(IndexRange{Start: 0, End: ll.size.Load()}, fn)
}

func (ll *chunkedLongList) ForEachInRange(indexRange IndexRange, fn func(index, value int64) error) error {
	if indexRange.Start < 0 {
		return status.Errorf(codes.OutOfRange, "Index %d is negative", indexRange.Start)
	}
	end := indexRange.End
	if size := ll.size.Load(); end > size {
		end = size
	}
	minimum := ll.validRange.minimum.Load()
	for start := indexRange.Start; start < end; {
		ordinal := start / ll.longsPerChunk
		chunkEnd := (ordinal + 1) * ll.longsPerChunk
		if chunkEnd > end {
			chunkEnd = end
		}
		if err := ll.forEachInChunk(int(ordinal), start, chunkEnd, minimum, fn); err != nil {
			return err
		}
		start = chunkEnd
	}
	return nil
}

// forEachInChunk calls into a function for a range of indices that are
// all part of the same chunk. The chunk is acquired once, so that it
// cannot be released while being traversed.
func (ll *chunkedLongList) forEachInChunk(ordinal int, start, end, minimum int64, fn func(index, value int64) error) error {
	e := ll.table.acquire(ordinal)
	if e != nil {
		defer e.release()
	}
	for index := start; index < end; index++ {
		value := ImpermissibleValue
		if e != nil && index >= minimum {
			var err error
			if value, err = e.chunk.Get(int(index % ll.longsPerChunk)); err != nil {
				return util.StatusWrapf(err, "Failed to read index %d", index)
			}
		}
		if err := fn(index, value); err != nil {
			return err
		}
	}
	return nil
}

func (ll *chunkedLongList) SplitAtChunkBoundaries(parts int) []IndexRange {
	size := ll.size.Load()
	if size == 0 || parts <= 0 {
		return nil
	}
	chunkCount := (size + ll.longsPerChunk - 1) / ll.longsPerChunk
	if int64(parts) > chunkCount {
		parts = int(chunkCount)
	}

	// Distribute chunks evenly, handing out the remainder to the
	// first ranges.
	ranges := make([]IndexRange, 0, parts)
	chunksPerPart, remainder := chunkCount/int64(parts), chunkCount%int64(parts)
	start := int64(0)
	for i := int64(0); i < int64(parts); i++ {
		chunks := chunksPerPart
		if i < remainder {
			chunks++
		}
		end := start + chunks*ll.longsPerChunk
		if end > size {
			end = size
		}
		ranges = append(ranges, IndexRange{Start: start, End: end})
		start = end
	}
	return ranges
}

func (ll *chunkedLongList) AllocatedChunkCount() int {
	return ll.table.count()
}

func (ll *chunkedLongList) OffHeapConsumptionBytes() int64 {
	return ll.allocator.OffHeapBytes()
}

func (ll *chunkedLongList) Close() error {
	if !ll.closed.CompareAndSwap(false, true) {
		return nil
	}
	ll.table.freeAll()
	if err := ll.allocator.Close(); err != nil {
		return util.StatusWrap(err, "Failed to close chunk allocator")
	}
	return nil
}
