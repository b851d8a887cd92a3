package longlist

import (
	"sync/atomic"
)

// validRange keeps track of the range of indices that hold meaningful
// data, and computes which chunks need to be retained.
type validRange struct {
	longsPerChunk        int64
	reservedBufferLength int64

	minimum atomic.Int64
	maximum atomic.Int64
}

func (vr *validRange) initialize(longsPerChunk, reservedBufferLength, maximum int64) {
	vr.longsPerChunk = longsPerChunk
	vr.reservedBufferLength = reservedBufferLength
	vr.maximum.Store(maximum)
}

func (vr *validRange) set(minimum, maximum int64) {
	vr.minimum.Store(minimum)
	vr.maximum.Store(maximum)
}

// retainedFrom returns the lowest index whose chunk needs to remain
// allocated for a given minimum valid index.
func (vr *validRange) retainedFrom(minimum int64) int64 {
	if minimum <= vr.reservedBufferLength {
		return 0
	}
	return minimum - vr.reservedBufferLength
}

// evictableChunks returns the ordinal of the first chunk that needs to
// be retained for a given minimum valid index, and the ordinal of a
// chunk that must be retained regardless. Chunks below the former,
// except the latter, may be released. The chunk containing the last
// index that was written is always retained, so that at least one
// chunk is present as long as the list contains data.
func (vr *validRange) evictableChunks(minimum, size int64) (int, int) {
	firstRetained := int(vr.retainedFrom(minimum) / vr.longsPerChunk)
	keep := -1
	if size > 0 {
		keep = int((size - 1) / vr.longsPerChunk)
	}
	return firstRetained, keep
}
