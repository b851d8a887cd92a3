package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hashgraph/hedera-services-sub126/pkg/longlist"
	"github.com/hashgraph/hedera-services-sub126/pkg/testutil"
	"github.com/hashgraph/hedera-services-sub126/pkg/util"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func writeTestSnapshot(t *testing.T) string {
	list := util.Must(longlist.NewInMemoryLongList(longlist.Parameters{LongsPerChunk: 8, Capacity: 100}))
	defer list.Close()
	for index := int64(0); index < 40; index++ {
		require.NoError(t, list.Put(index, 1000+index))
	}
	path := filepath.Join(t.TempDir(), "snapshot")
	require.NoError(t, list.WriteSnapshot(path))
	return path
}

func TestNewBackendConfiguration(t *testing.T) {
	_, err := newBackendConfiguration("file")
	testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Unknown backend \"file\""), err)

	configuration, err := newBackendConfiguration("nativeMemory")
	require.NoError(t, err)
	require.NotNil(t, configuration.NativeMemory)
}

func TestUpgradeAndVerify(t *testing.T) {
	inputPath := writeTestSnapshot(t)
	outputPath := filepath.Join(t.TempDir(), "upgraded")

	upgradeMinValidIndex = 20
	defer func() { upgradeMinValidIndex = -1 }()
	require.NoError(t, runUpgrade(inputPath, outputPath))

	header, err := longlist.ReadSnapshotHeader(outputPath)
	require.NoError(t, err)
	require.Equal(t, longlist.SnapshotHeader{
		FormatVersion: longlist.SnapshotFormatVersionCurrent,
		LongsPerChunk: 8,
		Capacity:      100,
		MinValidIndex: 20,
		Size:          40,
	}, header)

	require.NoError(t, runVerify(context.Background(), outputPath))
	require.NoError(t, runInfo(outputPath))
	require.NoError(t, runDump(outputPath))
}

func TestLoadSnapshotMissing(t *testing.T) {
	_, err := loadSnapshot(filepath.Join(t.TempDir(), "nonexistent"))
	require.Equal(t, codes.NotFound, status.Code(err))
}
