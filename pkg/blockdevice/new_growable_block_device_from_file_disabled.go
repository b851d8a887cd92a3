//go:build !(darwin || freebsd || linux)

package blockdevice

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewGrowableBlockDeviceFromFile creates a BlockDevice that is backed
// by a regular file stored in a file system. This implementation is a
// stub for operating systems that don't support positional I/O through
// golang.org/x/sys/unix.
func NewGrowableBlockDeviceFromFile(path string, zeroInitialize bool) (BlockDevice, error) {
	return nil, status.Error(codes.Unimplemented, "File backed block devices are not supported on this platform")
}
