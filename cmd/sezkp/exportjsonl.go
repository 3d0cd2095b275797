package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
)

var (
	exportInputPath  string
	exportOutputPath string
)

var exportJSONLCmd = &cobra.Command{
	Use:   "export-jsonl",
	Short: "re-encode a blocks file as line-delimited JSON for streaming",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := block.ExportJSONL(exportInputPath, exportOutputPath); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", exportInputPath, exportOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportJSONLCmd)
	exportJSONLCmd.Flags().StringVar(&exportInputPath, "input", "", "input blocks file path (any supported format)")
	exportJSONLCmd.Flags().StringVar(&exportOutputPath, "output", "", "output .jsonl file path")
	_ = exportJSONLCmd.MarkFlagRequired("input")
	_ = exportJSONLCmd.MarkFlagRequired("output")
}
