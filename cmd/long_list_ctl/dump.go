package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/hashgraph/hedera-services-sub126/pkg/longlist"
	"github.com/spf13/cobra"
)

var (
	dumpStart int64
	dumpEnd   int64
	dumpAll   bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().Int64Var(&dumpStart, "start", 0, "First index to print")
	cmd.Flags().Int64Var(&dumpEnd, "end", -1, "Index at which to stop printing (default: size of the list)")
	cmd.Flags().BoolVar(&dumpAll, "all", false, "Also print indices that have no value")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <snapshot>",
		Short: "Print the values stored in a snapshot",
		Long: `The dump command loads a snapshot and prints its values, one index
per line.

Example:
  long_list_ctl dump paths.ll
  long_list_ctl dump paths.ll --start 1000 --end 2000 --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

type dumpEntry struct {
	Index int64 `json:"index"`
	Value int64 `json:"value"`
}

func runDump(path string) error {
	list, err := loadSnapshot(path)
	if err != nil {
		return err
	}
	defer list.Close()

	indexRange := longlist.IndexRange{Start: dumpStart, End: list.Size()}
	if dumpEnd >= 0 && dumpEnd < indexRange.End {
		indexRange.End = dumpEnd
	}

	var entries []dumpEntry
	w := bufio.NewWriter(os.Stdout)
	if err := list.ForEachInRange(indexRange, func(index, value int64) error {
		if value == longlist.ImpermissibleValue && !dumpAll {
			return nil
		}
		if jsonOut {
			entries = append(entries, dumpEntry{Index: index, Value: value})
			return nil
		}
		_, err := fmt.Fprintf(w, "%d\t%d\n", index, value)
		return err
	}); err != nil {
		return err
	}
	if jsonOut {
		return printJSON(entries)
	}
	return w.Flush()
}
