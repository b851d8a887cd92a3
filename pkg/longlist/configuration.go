package longlist

import (
	"log"
	"os"

	"github.com/hashgraph/hedera-services-sub126/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Configuration of a LongList, as it appears in Jsonnet configuration
// files.
type Configuration struct {
	LongsPerChunk        int                  `json:"longsPerChunk"`
	Capacity             int64                `json:"capacity"`
	ReservedBufferLength int64                `json:"reservedBufferLength"`
	Backend              BackendConfiguration `json:"backend"`

	// If set and the file exists, the contents of the list are
	// restored from a snapshot at this path.
	SnapshotPath string `json:"snapshotPath,omitempty"`
}

// BackendConfiguration selects the storage medium of a LongList.
// Exactly one of the fields must be set.
type BackendConfiguration struct {
	InMemory     *InMemoryBackendConfiguration     `json:"inMemory,omitempty"`
	NativeMemory *NativeMemoryBackendConfiguration `json:"nativeMemory,omitempty"`
	File         *FileBackendConfiguration         `json:"file,omitempty"`
}

// InMemoryBackendConfiguration stores chunks in memory managed by the
// Go runtime.
type InMemoryBackendConfiguration struct{}

// NativeMemoryBackendConfiguration stores chunks in anonymous memory
// maps.
type NativeMemoryBackendConfiguration struct{}

// FileBackendConfiguration stores chunks in a file.
type FileBackendConfiguration struct {
	Path                    string `json:"path"`
	MaximumConcurrentWrites int64  `json:"maximumConcurrentWrites,omitempty"`
}

// NewChunkAllocatorFactoryFromConfiguration creates a
// ChunkAllocatorFactory based on parameters provided in a
// configuration file. The name of the storage type is returned as
// well, so that it can be used to label metrics.
func NewChunkAllocatorFactoryFromConfiguration(configuration *BackendConfiguration) (ChunkAllocatorFactory, string, error) {
	if configuration == nil {
		return nil, "", status.Error(codes.InvalidArgument, "Backend configuration not specified")
	}

	var allocatorFactory ChunkAllocatorFactory
	var storageType string
	backends := 0
	if configuration.InMemory != nil {
		allocatorFactory, storageType = InMemoryChunkAllocatorFactory, "InMemory"
		backends++
	}
	if configuration.NativeMemory != nil {
		allocatorFactory, storageType = NativeMemoryChunkAllocatorFactory, "NativeMemory"
		backends++
	}
	if file := configuration.File; file != nil {
		if file.Path == "" {
			return nil, "", status.Error(codes.InvalidArgument, "No path provided for file backend")
		}
		allocatorFactory, storageType = NewFileBackedChunkAllocatorFactory(file.Path, file.MaximumConcurrentWrites), "File"
		backends++
	}
	switch backends {
	case 0:
		return nil, "", status.Error(codes.InvalidArgument, "Configuration did not contain a supported backend")
	case 1:
		return allocatorFactory, storageType, nil
	default:
		return nil, "", status.Errorf(codes.InvalidArgument, "Configuration contains %d backends, while only one may be specified", backends)
	}
}

// NewLongListFromConfiguration creates a LongList based on parameters
// provided in a configuration file.
func NewLongListFromConfiguration(configuration *Configuration) (LongList, error) {
	if configuration == nil {
		return nil, status.Error(codes.InvalidArgument, "No configuration provided")
	}
	allocatorFactory, storageType, err := NewChunkAllocatorFactoryFromConfiguration(&configuration.Backend)
	if err != nil {
		return nil, util.StatusWrap(err, "Invalid backend configuration")
	}

	if path := configuration.SnapshotPath; path != "" {
		list, err := NewLongListFromSnapshot(path, configuration.ReservedBufferLength, allocatorFactory, storageType)
		if err == nil {
			if list.LongsPerChunk() != configuration.LongsPerChunk || list.Capacity() != configuration.Capacity {
				log.Printf(
					"Snapshot %#v has %d longs per chunk and capacity %d, overriding configured values of %d and %d",
					path,
					list.LongsPerChunk(),
					list.Capacity(),
					configuration.LongsPerChunk,
					configuration.Capacity)
			}
			log.Printf("Restored %d values from snapshot %#v", list.Size()-list.MinValidIndex(), path)
			return list, nil
		}
		if status.Code(err) != codes.NotFound {
			return nil, err
		}
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			return nil, err
		}
		log.Printf("Snapshot %#v not found, starting with an empty list", path)
	}

	return NewChunkedLongList(
		Parameters{
			LongsPerChunk:        configuration.LongsPerChunk,
			Capacity:             configuration.Capacity,
			ReservedBufferLength: configuration.ReservedBufferLength,
		},
		allocatorFactory,
		storageType)
}
