package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashgraph/hedera-services-sub126/pkg/util"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type exampleConfiguration struct {
	Name     string `json:"name"`
	Capacity int64  `json:"capacity"`
}

func TestUnmarshalConfigurationFromJsonnet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var configuration exampleConfiguration
		require.NoError(t, util.UnmarshalConfigurationFromJsonnet("example.jsonnet", `{ name: 'paths', capacity: 10 * 1000 }`, &configuration))
		require.Equal(t, exampleConfiguration{Name: "paths", Capacity: 10000}, configuration)
	})

	t.Run("EnvironmentVariables", func(t *testing.T) {
		t.Setenv("LONG_LIST_NAME", "hashes")

		var configuration exampleConfiguration
		require.NoError(t, util.UnmarshalConfigurationFromJsonnet("example.jsonnet", `{ name: std.extVar('LONG_LIST_NAME') }`, &configuration))
		require.Equal(t, "hashes", configuration.Name)
	})

	t.Run("SyntaxError", func(t *testing.T) {
		var configuration exampleConfiguration
		err := util.UnmarshalConfigurationFromJsonnet("example.jsonnet", `{ name: `, &configuration)
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("UnknownField", func(t *testing.T) {
		var configuration exampleConfiguration
		err := util.UnmarshalConfigurationFromJsonnet("example.jsonnet", `{ name: 'paths', size: 12 }`, &configuration)
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestUnmarshalConfigurationFromFile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "example.jsonnet")
		require.NoError(t, os.WriteFile(path, []byte(`{ name: 'paths', capacity: 5 }`), 0o666))

		var configuration exampleConfiguration
		require.NoError(t, util.UnmarshalConfigurationFromFile(path, &configuration))
		require.Equal(t, exampleConfiguration{Name: "paths", Capacity: 5}, configuration)
	})

	t.Run("Missing", func(t *testing.T) {
		var configuration exampleConfiguration
		require.Error(t, util.UnmarshalConfigurationFromFile(filepath.Join(t.TempDir(), "nonexistent.jsonnet"), &configuration))
	})
}
