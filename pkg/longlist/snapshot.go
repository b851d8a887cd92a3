package longlist

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/hashgraph/hedera-services-sub126/pkg/util"
	"github.com/prometheus/client_golang/prometheus"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// SnapshotFormatVersionLegacy is the version of snapshots that
	// store all values starting at index zero.
	SnapshotFormatVersionLegacy uint32 = 1
	// SnapshotFormatVersionCurrent is the version of snapshots that
	// only store values starting at the minimum valid index.
	SnapshotFormatVersionCurrent uint32 = 2

	// In serialized form, the header of a snapshot contains the
	// following fields:
	//
	// - Format version               4 bytes
	// - Longs per chunk              4 bytes
	// - Capacity                     8 bytes
	// - Minimum valid index          8 bytes (current version only)
	legacySnapshotHeaderSizeBytes  = 4 + 4 + 8
	currentSnapshotHeaderSizeBytes = 4 + 4 + 8 + 8

	snapshotBufferSizeBytes = 1 << 16
)

var (
	snapshotPrometheusMetrics sync.Once

	snapshotDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "merkledb",
			Subsystem: "long_list",
			Name:      "snapshot_duration_seconds",
			Help:      "Amount of time spent writing and reading snapshots of a LongList, in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4.0, 10),
		},
		[]string{"operation", "outcome"})

	snapshotWriteSucceeded = snapshotDurationSeconds.WithLabelValues("Write", "Succeeded")
	snapshotWriteFailed    = snapshotDurationSeconds.WithLabelValues("Write", "Failed")
	snapshotReadSucceeded  = snapshotDurationSeconds.WithLabelValues("Read", "Succeeded")
	snapshotReadFailed     = snapshotDurationSeconds.WithLabelValues("Read", "Failed")
)

func registerSnapshotMetrics() {
	snapshotPrometheusMetrics.Do(func() {
		prometheus.MustRegister(snapshotDurationSeconds)
	})
}

func observeSnapshotDuration(timeStart time.Time, err error, succeeded, failed prometheus.Observer) {
	duration := time.Since(timeStart).Seconds()
	if err == nil {
		succeeded.Observe(duration)
	} else {
		failed.Observe(duration)
	}
}

// SnapshotHeader contains the properties of a LongList stored in a
// snapshot file.
type SnapshotHeader struct {
	FormatVersion uint32
	LongsPerChunk int
	Capacity      int64
	MinValidIndex int64
	// Size is derived from the length of the payload.
	Size int64
}

// payloadOffsetBytes returns the offset at which values are stored.
func (h *SnapshotHeader) payloadOffsetBytes() int64 {
	if h.FormatVersion == SnapshotFormatVersionLegacy {
		return legacySnapshotHeaderSizeBytes
	}
	return currentSnapshotHeaderSizeBytes
}

func decodeSnapshotHeader(r io.ReaderAt, fileSizeBytes int64) (SnapshotHeader, error) {
	var header [currentSnapshotHeaderSizeBytes]byte
	if fileSizeBytes < 4 {
		return SnapshotHeader{}, status.Errorf(codes.DataLoss, "Snapshot is %d bytes in size, which is too small to contain a format version", fileSizeBytes)
	}
	if _, err := r.ReadAt(header[:4], 0); err != nil {
		return SnapshotHeader{}, util.StatusWrapWithCode(err, codes.DataLoss, "Failed to read format version")
	}

	h := SnapshotHeader{
		FormatVersion: binary.LittleEndian.Uint32(header[:]),
	}
	switch h.FormatVersion {
	case SnapshotFormatVersionLegacy, SnapshotFormatVersionCurrent:
	default:
		return SnapshotHeader{}, status.Errorf(codes.Unimplemented, "Snapshot has unsupported format version %d", h.FormatVersion)
	}

	headerSizeBytes := h.payloadOffsetBytes()
	if fileSizeBytes < headerSizeBytes {
		return SnapshotHeader{}, status.Errorf(codes.DataLoss, "Snapshot is %d bytes in size, while its header is %d bytes in size", fileSizeBytes, headerSizeBytes)
	}
	if _, err := r.ReadAt(header[4:headerSizeBytes], 4); err != nil {
		return SnapshotHeader{}, util.StatusWrapWithCode(err, codes.DataLoss, "Failed to read header")
	}
	h.LongsPerChunk = int(binary.LittleEndian.Uint32(header[4:]))
	capacity := binary.LittleEndian.Uint64(header[8:])
	if capacity > math.MaxInt64 {
		return SnapshotHeader{}, status.Errorf(codes.DataLoss, "Snapshot has capacity %d, which exceeds the maximum of %d", capacity, int64(math.MaxInt64))
	}
	h.Capacity = int64(capacity)
	if h.FormatVersion == SnapshotFormatVersionCurrent {
		minValidIndex := binary.LittleEndian.Uint64(header[16:])
		if minValidIndex > capacity {
			return SnapshotHeader{}, status.Errorf(codes.DataLoss, "Snapshot has minimum valid index %d, which exceeds its capacity of %d", minValidIndex, capacity)
		}
		h.MinValidIndex = int64(minValidIndex)
	}

	payloadSizeBytes := fileSizeBytes - headerSizeBytes
	if payloadSizeBytes%8 != 0 {
		return SnapshotHeader{}, status.Errorf(codes.DataLoss, "Snapshot payload is %d bytes in size, which is not a multiple of 8 bytes", payloadSizeBytes)
	}
	h.Size = h.MinValidIndex + payloadSizeBytes/8
	if h.Size > h.Capacity {
		return SnapshotHeader{}, status.Errorf(codes.DataLoss, "Snapshot contains values up to index %d, which exceeds its capacity of %d", h.Size-1, h.Capacity)
	}
	return h, nil
}

// ReadSnapshotHeader decodes the header of a snapshot file, without
// loading any of its values.
func ReadSnapshotHeader(path string) (SnapshotHeader, error) {
	f, err := openSnapshot(path)
	if err != nil {
		return SnapshotHeader{}, err
	}
	defer f.Close()

	fileInfo, err := f.Stat()
	if err != nil {
		return SnapshotHeader{}, util.StatusWrapWithCode(err, codes.Internal, "Failed to obtain size of snapshot")
	}
	return decodeSnapshotHeader(f, fileInfo.Size())
}

func openSnapshot(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, util.StatusWrapfWithCode(err, codes.NotFound, "Snapshot %#v does not exist", path)
	} else if err != nil {
		return nil, util.StatusWrapfWithCode(err, codes.Internal, "Failed to open snapshot %#v", path)
	}
	return f, nil
}

// NewLongListFromSnapshot creates a LongList and fills it with the
// contents of a snapshot file. The number of longs per chunk and the
// capacity of the list are obtained from the snapshot. Values below
// the minimum valid index stored in the snapshot are absent.
//
// Both legacy and current snapshot formats are supported.
func NewLongListFromSnapshot(path string, reservedBufferLength int64, allocatorFactory ChunkAllocatorFactory, storageType string) (list LongList, err error) {
	registerSnapshotMetrics()
	timeStart := time.Now()
	defer func() {
		observeSnapshotDuration(timeStart, err, snapshotReadSucceeded, snapshotReadFailed)
	}()

	f, err := openSnapshot(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fileInfo, err := f.Stat()
	if err != nil {
		return nil, util.StatusWrapWithCode(err, codes.Internal, "Failed to obtain size of snapshot")
	}
	h, err := decodeSnapshotHeader(f, fileInfo.Size())
	if err != nil {
		return nil, err
	}

	ll, err := newChunkedLongList(
		Parameters{
			LongsPerChunk:        h.LongsPerChunk,
			Capacity:             h.Capacity,
			ReservedBufferLength: reservedBufferLength,
		},
		allocatorFactory,
		storageType)
	if err != nil {
		return nil, util.StatusWrapf(err, "Invalid parameters in snapshot %#v", path)
	}
	if err := ll.loadSnapshotPayload(f, &h); err != nil {
		ll.Close()
		return nil, util.StatusWrapf(err, "Failed to load snapshot %#v", path)
	}
	return ll, nil
}

func (ll *chunkedLongList) loadSnapshotPayload(f io.ReaderAt, h *SnapshotHeader) error {
	ll.validRange.set(h.MinValidIndex, ll.capacity-1)

	payloadOffsetBytes := h.payloadOffsetBytes()
	r := bufio.NewReaderSize(
		io.NewSectionReader(f, payloadOffsetBytes, (h.Size-h.MinValidIndex)*8),
		snapshotBufferSizeBytes)
	var slot [8]byte
	for index := h.MinValidIndex; index < h.Size; index++ {
		if _, err := io.ReadFull(r, slot[:]); err != nil {
			return util.StatusWrapfWithCode(err, codes.DataLoss, "Failed to read value at index %d", index)
		}
		if value := int64(binary.LittleEndian.Uint64(slot[:])); value != ImpermissibleValue {
			if err := ll.Put(index, value); err != nil {
				return err
			}
		}
	}

	// Trailing values may have been evicted, or the minimum valid
	// index may lie at the end of the list. Even though no values
	// are stored for them, they are still part of the list.
	ll.growSize(h.Size)
	return nil
}

func (ll *chunkedLongList) WriteSnapshot(path string) (err error) {
	registerSnapshotMetrics()
	timeStart := time.Now()
	defer func() {
		observeSnapshotDuration(timeStart, err, snapshotWriteSucceeded, snapshotWriteFailed)
	}()

	if ll.closed.Load() {
		return status.Error(codes.FailedPrecondition, "Long list has been closed")
	}

	// Write the snapshot to a temporary file, and move it into
	// place once complete. This prevents existing snapshots from
	// being truncated if writing fails.
	temporaryPath := path + ".tmp"
	f, err := os.OpenFile(temporaryPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o666)
	if err != nil {
		return util.StatusWrapfWithCode(err, codes.Internal, "Failed to create temporary file %#v", temporaryPath)
	}
	if err := ll.writeSnapshotContents(f); err != nil {
		f.Close()
		os.Remove(temporaryPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(temporaryPath)
		return util.StatusWrapWithCode(err, codes.Internal, "Failed to synchronize temporary file")
	}
	if err := f.Close(); err != nil {
		os.Remove(temporaryPath)
		return util.StatusWrapWithCode(err, codes.Internal, "Failed to close temporary file")
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return util.StatusWrapfWithCode(err, codes.Internal, "Failed to rename temporary file to %#v", path)
	}
	return nil
}

func (ll *chunkedLongList) writeSnapshotContents(w io.Writer) error {
	size := ll.size.Load()
	minValidIndex := ll.validRange.minimum.Load()
	if minValidIndex > size {
		minValidIndex = size
	}

	bw := bufio.NewWriterSize(w, snapshotBufferSizeBytes)
	var header [currentSnapshotHeaderSizeBytes]byte
	binary.LittleEndian.PutUint32(header[:], SnapshotFormatVersionCurrent)
	binary.LittleEndian.PutUint32(header[4:], uint32(ll.longsPerChunk))
	binary.LittleEndian.PutUint64(header[8:], uint64(ll.capacity))
	binary.LittleEndian.PutUint64(header[16:], uint64(minValidIndex))
	if _, err := bw.Write(header[:]); err != nil {
		return util.StatusWrapWithCode(err, codes.Internal, "Failed to write header")
	}

	var slot [8]byte
	if err := ll.ForEachInRange(IndexRange{Start: minValidIndex, End: size}, func(index, value int64) error {
		binary.LittleEndian.PutUint64(slot[:], uint64(value))
		if _, err := bw.Write(slot[:]); err != nil {
			return util.StatusWrapfWithCode(err, codes.Internal, "Failed to write value at index %d", index)
		}
		return nil
	}); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return util.StatusWrapWithCode(err, codes.Internal, "Failed to flush snapshot")
	}
	return nil
}
