package main

import (
	"github.com/hashgraph/hedera-services-sub126/pkg/longlist"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// newBackendConfiguration converts the value of the --backend flag to
// a backend configuration. Snapshots are only loaded temporarily, so
// storing them in a file is not supported.
func newBackendConfiguration(name string) (*longlist.BackendConfiguration, error) {
	switch name {
	case "inMemory":
		return &longlist.BackendConfiguration{InMemory: &longlist.InMemoryBackendConfiguration{}}, nil
	case "nativeMemory":
		return &longlist.BackendConfiguration{NativeMemory: &longlist.NativeMemoryBackendConfiguration{}}, nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "Unknown backend %#v", name)
	}
}

// loadSnapshot loads the full contents of a snapshot into a LongList.
func loadSnapshot(path string) (longlist.LongList, error) {
	backendConfiguration, err := newBackendConfiguration(backend)
	if err != nil {
		return nil, err
	}
	allocatorFactory, storageType, err := longlist.NewChunkAllocatorFactoryFromConfiguration(backendConfiguration)
	if err != nil {
		return nil, err
	}
	return longlist.NewLongListFromSnapshot(path, 0, allocatorFactory, storageType)
}
