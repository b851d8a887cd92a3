package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	jsonOut bool
	backend string
)

var rootCmd = &cobra.Command{
	Use:   "long_list_ctl",
	Short: "Inspect and convert snapshots of long lists",
	Long: `long_list_ctl inspects snapshot files written by long lists. It can
print their headers and contents, check them for consistency and convert
snapshots in the legacy format to the current format.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "inMemory", "Storage used while loading snapshots (inMemory or nativeMemory)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printJSON writes a value to standard output in JSON format.
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
