package main

import (
	"fmt"

	"github.com/hashgraph/hedera-services-sub126/pkg/longlist"
	"github.com/spf13/cobra"
)

var upgradeMinValidIndex int64

func init() {
	cmd := newUpgradeCmd()
	cmd.Flags().Int64Var(&upgradeMinValidIndex, "min-valid-index", -1, "Discard values below this index (default: keep all values)")
	rootCmd.AddCommand(cmd)
}

func newUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <input> <output>",
		Short: "Rewrite a snapshot in the current format",
		Long: `The upgrade command loads a snapshot in any supported format and
writes it back in the current format. Optionally, the minimum valid index
can be raised, so that values below it are omitted from the output.

Example:
  long_list_ctl upgrade paths.ll.old paths.ll
  long_list_ctl upgrade paths.ll paths.ll --min-valid-index 1000000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(args[0], args[1])
		},
	}
}

func runUpgrade(inputPath, outputPath string) error {
	h, err := longlist.ReadSnapshotHeader(inputPath)
	if err != nil {
		return err
	}
	list, err := loadSnapshot(inputPath)
	if err != nil {
		return err
	}
	defer list.Close()

	if upgradeMinValidIndex >= 0 {
		if err := list.UpdateValidRange(upgradeMinValidIndex, list.MaxValidIndex()); err != nil {
			return err
		}
	}
	if err := list.WriteSnapshot(outputPath); err != nil {
		return err
	}
	if !jsonOut {
		fmt.Printf(
			"Converted %s from format version %d to %d, storing indices [%d, %d) in %s\n",
			inputPath,
			h.FormatVersion,
			longlist.SnapshotFormatVersionCurrent,
			min(list.MinValidIndex(), list.Size()),
			list.Size(),
			outputPath)
		return nil
	}
	return printJSON(struct {
		Input         string `json:"input"`
		Output        string `json:"output"`
		FormatVersion uint32 `json:"formatVersion"`
	}{inputPath, outputPath, longlist.SnapshotFormatVersionCurrent})
}
