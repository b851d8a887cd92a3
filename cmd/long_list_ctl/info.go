package main

import (
	"fmt"

	"github.com/hashgraph/hedera-services-sub126/pkg/longlist"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <snapshot>",
		Short: "Show the header of a snapshot",
		Long: `The info command decodes the header of a snapshot, without loading
any of its values.

Example:
  long_list_ctl info paths.ll
  long_list_ctl info paths.ll --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

type snapshotInfo struct {
	Path          string `json:"path"`
	FormatVersion uint32 `json:"formatVersion"`
	LongsPerChunk int    `json:"longsPerChunk"`
	Capacity      int64  `json:"capacity"`
	MinValidIndex int64  `json:"minValidIndex"`
	Size          int64  `json:"size"`
}

func runInfo(path string) error {
	h, err := longlist.ReadSnapshotHeader(path)
	if err != nil {
		return err
	}
	info := snapshotInfo{
		Path:          path,
		FormatVersion: h.FormatVersion,
		LongsPerChunk: h.LongsPerChunk,
		Capacity:      h.Capacity,
		MinValidIndex: h.MinValidIndex,
		Size:          h.Size,
	}
	if jsonOut {
		return printJSON(info)
	}
	fmt.Printf("Path:            %s\n", info.Path)
	fmt.Printf("Format version:  %d\n", info.FormatVersion)
	fmt.Printf("Longs per chunk: %d\n", info.LongsPerChunk)
	fmt.Printf("Capacity:        %d\n", info.Capacity)
	fmt.Printf("Min valid index: %d\n", info.MinValidIndex)
	fmt.Printf("Size:            %d\n", info.Size)
	return nil
}
