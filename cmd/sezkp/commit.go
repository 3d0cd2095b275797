package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/merkle"
)

var (
	commitBlocksPath string
	commitOutPath    string
	commitStream     bool
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "commit a block stream to a canonical Merkle manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		var m merkle.CommitManifest
		if commitStream {
			it, closeFn, err := block.StreamAuto(commitBlocksPath)
			if err != nil {
				return err
			}
			defer closeFn()
			m, err = merkle.CommitStream(it)
			if err != nil {
				return err
			}
		} else {
			blocks, err := block.ReadAuto(commitBlocksPath)
			if err != nil {
				return err
			}
			m = merkle.CommitBlocks(blocks)
		}
		if err := merkle.WriteManifestAuto(commitOutPath, m); err != nil {
			return err
		}
		fmt.Printf("committed %d leaves, root=%x\n", m.NLeaves, m.Root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringVar(&commitBlocksPath, "blocks", "", "input blocks file path")
	commitCmd.Flags().StringVar(&commitOutPath, "out", "", "output manifest file path")
	commitCmd.Flags().BoolVar(&commitStream, "stream", false, "commit via one-pass streaming iteration instead of materializing the block sequence")
	_ = commitCmd.MarkFlagRequired("blocks")
	_ = commitCmd.MarkFlagRequired("out")
}
