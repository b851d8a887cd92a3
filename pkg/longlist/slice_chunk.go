package longlist

import (
	"sync/atomic"
)

// sliceChunk is a Chunk whose slots are stored in a slice of int64s.
// The slice may either be allocated by the Go runtime or refer to
// memory that is mapped explicitly.
type sliceChunk struct {
	slots   []int64
	release func()
}

func (c *sliceChunk) Get(offset int) (int64, error) {
	return atomic.LoadInt64(&c.slots[offset]), nil
}

func (c *sliceChunk) Put(offset int, value int64) error {
	atomic.StoreInt64(&c.slots[offset], value)
	return nil
}

func (c *sliceChunk) CompareAndSwap(offset int, expected, value int64) (bool, error) {
	return atomic.CompareAndSwapInt64(&c.slots[offset], expected, value), nil
}

func (c *sliceChunk) Release() {
	c.slots = nil
	if c.release != nil {
		c.release()
	}
}
