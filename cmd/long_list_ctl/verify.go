package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/hashgraph/hedera-services-sub126/pkg/longlist"
	"github.com/spf13/cobra"
)

var verifyParallelism int

func init() {
	cmd := newVerifyCmd()
	cmd.Flags().IntVar(&verifyParallelism, "parallelism", 4, "Number of chunks to traverse in parallel")
	rootCmd.AddCommand(cmd)
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <snapshot>",
		Short: "Check a snapshot for consistency",
		Long: `The verify command loads all values of a snapshot, failing if the
snapshot is truncated or contains parameters that are out of bounds.
Upon success, the number of indices in the valid range holding a value
is reported.

Example:
  long_list_ctl verify paths.ll`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), args[0])
		},
	}
}

type verifyResult struct {
	Path            string `json:"path"`
	MinValidIndex   int64  `json:"minValidIndex"`
	Size            int64  `json:"size"`
	Values          int64  `json:"values"`
	AllocatedChunks int    `json:"allocatedChunks"`
}

func runVerify(ctx context.Context, path string) error {
	list, err := loadSnapshot(path)
	if err != nil {
		return err
	}
	defer list.Close()

	var values atomic.Int64
	if err := longlist.ParallelForEach(ctx, list, verifyParallelism, func(index, value int64) error {
		if value != longlist.ImpermissibleValue {
			values.Add(1)
		}
		return nil
	}); err != nil {
		return err
	}

	result := verifyResult{
		Path:            path,
		MinValidIndex:   list.MinValidIndex(),
		Size:            list.Size(),
		Values:          values.Load(),
		AllocatedChunks: list.AllocatedChunkCount(),
	}
	if jsonOut {
		return printJSON(result)
	}
	fmt.Printf(
		"%s: OK, %d of %d indices in [%d, %d) hold a value, stored in %d chunks\n",
		result.Path,
		result.Values,
		result.Size-result.MinValidIndex,
		result.MinValidIndex,
		result.Size,
		result.AllocatedChunks)
	return nil
}
