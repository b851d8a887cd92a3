package longlist

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// minimumChunkTableLength is the number of slots the chunk table has
// after it is grown for the first time.
const minimumChunkTableLength = 16

// chunkTableEntry holds a reference counted Chunk. The chunk table
// holds one reference. Callers of chunkTable.acquire() obtain another
// one, which they must drop by calling release(). This ensures that
// chunks are not released while being accessed.
type chunkTableEntry struct {
	usecount atomic.Int64
	chunk    Chunk
	table    *chunkTable
}

func (e *chunkTableEntry) tryAcquire() bool {
	for {
		c := e.usecount.Load()
		if c <= 0 {
			// Chunk has been removed from the table, and is
			// being released.
			return false
		}
		if e.usecount.CompareAndSwap(c, c+1) {
			return true
		}
	}
}

func (e *chunkTableEntry) release() {
	if c := e.usecount.Add(-1); c < 0 {
		panic(fmt.Sprintf("release(): Chunk has invalid reference count %d", c))
	} else if c == 0 {
		e.chunk.Release()
		e.table.releases.Inc()
	}
}

// chunkTable maps chunk ordinals to chunks. Lookups are lock free.
// Slots are stored in a slice that is grown on demand. Instead of
// resizing the slice in place, a copy is made that is published
// atomically. Readers thus either observe the old or the new slice,
// and never index past its end.
//
// All modifications of slots are performed while holding the lock.
// This ensures that no modifications are lost while copying slots into
// a grown slice.
type chunkTable struct {
	maximumLength int
	allocations   prometheus.Counter
	releases      prometheus.Counter

	slots     atomic.Pointer[[]atomic.Pointer[chunkTableEntry]]
	lock      sync.Mutex
	liveCount atomic.Int64
}

func newChunkTable(maximumLength int, allocations, releases prometheus.Counter) *chunkTable {
	ct := &chunkTable{
		maximumLength: maximumLength,
		allocations:   allocations,
		releases:      releases,
	}
	ct.slots.Store(&[]atomic.Pointer[chunkTableEntry]{})
	return ct
}

// acquire a reference to the chunk with a given ordinal. nil is
// returned if no chunk is present.
func (ct *chunkTable) acquire(ordinal int) *chunkTableEntry {
	slots := *ct.slots.Load()
	if ordinal >= len(slots) {
		return nil
	}
	if e := slots[ordinal].Load(); e != nil && e.tryAcquire() {
		return e
	}
	return nil
}

// acquireOrCreate is identical to acquire, except that a chunk is
// allocated if none is present.
func (ct *chunkTable) acquireOrCreate(ordinal int, allocator ChunkAllocator) (*chunkTableEntry, error) {
	if e := ct.acquire(ordinal); e != nil {
		return e, nil
	}

	ct.lock.Lock()
	defer ct.lock.Unlock()

	slot := &(*ct.growLocked(ordinal + 1))[ordinal]
	if e := slot.Load(); e != nil {
		// Another goroutine created the chunk in the meantime.
		// Entries only have their reference count drop to zero
		// after being removed from the table, so acquiring
		// cannot fail while holding the lock.
		if !e.tryAcquire() {
			panic("Chunk table contains an entry that is being released")
		}
		return e, nil
	}

	chunk, err := allocator.NewChunk()
	if err != nil {
		return nil, err
	}
	e := &chunkTableEntry{
		chunk: chunk,
		table: ct,
	}
	e.usecount.Store(2)
	slot.Store(e)
	ct.liveCount.Add(1)
	ct.allocations.Inc()
	return e, nil
}

// growLocked ensures the slice of slots has at least a given length,
// returning the current slice.
func (ct *chunkTable) growLocked(minimumLength int) *[]atomic.Pointer[chunkTableEntry] {
	oldSlots := ct.slots.Load()
	if minimumLength <= len(*oldSlots) {
		return oldSlots
	}
	if minimumLength > ct.maximumLength {
		panic(fmt.Sprintf("Attempted to grow chunk table to %d slots, while its maximum length is %d", minimumLength, ct.maximumLength))
	}

	newLength := 2 * len(*oldSlots)
	if newLength < minimumChunkTableLength {
		newLength = minimumChunkTableLength
	}
	if newLength < minimumLength {
		newLength = minimumLength
	}
	if newLength > ct.maximumLength {
		newLength = ct.maximumLength
	}
	newSlots := make([]atomic.Pointer[chunkTableEntry], newLength)
	for i := range *oldSlots {
		newSlots[i].Store((*oldSlots)[i].Load())
	}
	ct.slots.Store(&newSlots)
	return &newSlots
}

// freeLocked clears a slot of the table, dropping the reference the
// table holds on its chunk.
func (ct *chunkTable) freeLocked(slot *atomic.Pointer[chunkTableEntry]) bool {
	e := slot.Swap(nil)
	if e == nil {
		return false
	}
	ct.liveCount.Add(-1)
	e.release()
	return true
}

// freeBelow removes all chunks whose ordinal is less than a given
// value, except for the chunk with ordinal keep. The number of chunks
// that were removed is returned.
func (ct *chunkTable) freeBelow(ordinal, keep int) int {
	ct.lock.Lock()
	defer ct.lock.Unlock()

	slots := *ct.slots.Load()
	if ordinal > len(slots) {
		ordinal = len(slots)
	}
	freed := 0
	for i := 0; i < ordinal; i++ {
		if i != keep && ct.freeLocked(&slots[i]) {
			freed++
		}
	}
	return freed
}

// freeAll removes all chunks from the table.
func (ct *chunkTable) freeAll() {
	ct.lock.Lock()
	defer ct.lock.Unlock()

	slots := *ct.slots.Load()
	for i := range slots {
		ct.freeLocked(&slots[i])
	}
}

// count returns the number of chunks present in the table.
func (ct *chunkTable) count() int {
	return int(ct.liveCount.Load())
}
