package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/trace"
)

var (
	simT         uint64
	simB         uint32
	simTau       uint16
	simOutBlocks string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "generate a toy trace and partition it into blocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := trace.Generate(simT, uint8(simTau))
		blocks, err := trace.Partition(&f, simB)
		if err != nil {
			return err
		}
		if err := block.WriteAuto(simOutBlocks, blocks); err != nil {
			return err
		}
		fmt.Printf("wrote %d blocks to %s\n", len(blocks), simOutBlocks)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Uint64Var(&simT, "t", 0, "number of trace steps")
	simulateCmd.Flags().Uint32Var(&simB, "b", 0, "block size in steps")
	simulateCmd.Flags().Uint16Var(&simTau, "tau", 1, "number of work tapes")
	simulateCmd.Flags().StringVar(&simOutBlocks, "out-blocks", "", "output blocks file path")
	_ = simulateCmd.MarkFlagRequired("t")
	_ = simulateCmd.MarkFlagRequired("b")
	_ = simulateCmd.MarkFlagRequired("out-blocks")
}
