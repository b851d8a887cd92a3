//go:build darwin || freebsd || linux

package blockdevice

import (
	"io"
	"syscall"

	"github.com/hashgraph/hedera-services-sub126/pkg/util"

	"golang.org/x/sys/unix"
)

type fileBlockDevice struct {
	fd int
}

// NewGrowableBlockDeviceFromFile creates a BlockDevice that is backed
// by a regular file stored in a file system. Unlike a block device of
// fixed size, the file is extended implicitly as data is written past
// its end. Regions that were skipped over are left as holes, which
// read back as zero bytes.
//
// When zeroInitialize is set, any existing contents of the file are
// discarded.
func NewGrowableBlockDeviceFromFile(path string, zeroInitialize bool) (BlockDevice, error) {
	flags := unix.O_CREAT | unix.O_RDWR | unix.O_CLOEXEC
	if zeroInitialize {
		flags |= unix.O_TRUNC
	}
	fd, err := unix.Open(path, flags, 0o666)
	if err != nil {
		return nil, util.StatusWrapf(err, "Failed to open file %#v", path)
	}
	return &fileBlockDevice{fd: fd}, nil
}

func (bd *fileBlockDevice) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, syscall.EINVAL
	}
	nTotal := 0
	for len(p) > 0 {
		n, err := unix.Pread(bd.fd, p, off)
		if err != nil {
			return nTotal, err
		}
		if n == 0 {
			return nTotal, io.EOF
		}
		nTotal += n
		p = p[n:]
		off += int64(n)
	}
	return nTotal, nil
}

func (bd *fileBlockDevice) WriteAt(p []byte, off int64) (int, error) {
	// The pwrite() system call cannot return a size and error at
	// the same time. If an error occurs after one or more bytes are
	// written, it returns the size without an error (a "short
	// write"). As WriteAt() must return an error in those cases, we
	// must invoke pwrite() repeatedly.
	nTotal := 0
	for len(p) > 0 {
		n, err := unix.Pwrite(bd.fd, p, off)
		nTotal += n
		if err != nil {
			return nTotal, err
		}
		p = p[n:]
		off += int64(n)
	}
	return nTotal, nil
}

func (bd *fileBlockDevice) Sync() error {
	return unix.Fsync(bd.fd)
}

func (bd *fileBlockDevice) Close() error {
	if err := unix.Close(bd.fd); err != nil {
		return util.StatusWrap(err, "Failed to close file descriptor")
	}
	return nil
}
