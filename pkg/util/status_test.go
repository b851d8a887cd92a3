package util_test

import (
	"testing"

	"github.com/hashgraph/hedera-services-sub126/pkg/testutil"
	"github.com/hashgraph/hedera-services-sub126/pkg/util"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStatusWrap(t *testing.T) {
	t.Run("PreserveCode", func(t *testing.T) {
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.NotFound, "Failed to load snapshot \"a\": File not found"),
			util.StatusWrapf(status.Error(codes.NotFound, "File not found"), "Failed to load snapshot %#v", "a"))
	})

	t.Run("ReplaceCode", func(t *testing.T) {
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.DataLoss, "Failed to read header: unexpected EOF"),
			util.StatusWrapWithCode(status.Error(codes.Unknown, "unexpected EOF"), codes.DataLoss, "Failed to read header"))
	})
}

func TestStatusFromMultiple(t *testing.T) {
	t.Run("None", func(t *testing.T) {
		require.NoError(t, util.StatusFromMultiple(nil))
	})

	t.Run("Single", func(t *testing.T) {
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.Internal, "Failed to unmap chunk"),
			util.StatusFromMultiple([]error{status.Error(codes.Internal, "Failed to unmap chunk")}))
	})

	t.Run("Multiple", func(t *testing.T) {
		// The code of the first error is retained.
		testutil.RequireEqualStatus(
			t,
			status.Error(codes.Internal, "Failed to unmap chunk, Permission denied"),
			util.StatusFromMultiple([]error{
				status.Error(codes.Internal, "Failed to unmap chunk"),
				status.Error(codes.PermissionDenied, "Permission denied"),
			}))
	})
}
