package blockdevice

import (
	"io"
	"os"
)

// BlockDevice is an interface for interacting with a block device like
// storage medium. Block devices support random access reads and writes.
//
// Because of caching, writes may not be applied against the underlying
// storage medium immediately. This can be problematic in case the order
// of writes matters. The Sync() function can be used to block execution
// until all previous writes are persisted.
//
// Reads against regions that have never been written may either return
// zero bytes or io.EOF, depending on whether the region lies beyond the
// current end of the storage medium. Callers that store fixed-size
// records should treat both cases as zero initialized data.
type BlockDevice interface {
	io.ReaderAt
	io.WriterAt

	Sync() error
	Close() error
}

var _ BlockDevice = (*os.File)(nil)
