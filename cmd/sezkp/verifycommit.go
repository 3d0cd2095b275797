package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/merkle"
)

var (
	vcBlocksPath   string
	vcManifestPath string
)

var verifyCommitCmd = &cobra.Command{
	Use:   "verify-commit",
	Short: "recompute a block stream's root via one-pass streaming and check it against a manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		want, err := merkle.ReadManifestAuto(vcManifestPath)
		if err != nil {
			return err
		}
		it, closeFn, err := block.StreamAuto(vcBlocksPath)
		if err != nil {
			return err
		}
		defer closeFn()
		if err := merkle.VerifyStream(it, want); err != nil {
			return err
		}
		fmt.Println("OK: commit verified")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCommitCmd)
	verifyCommitCmd.Flags().StringVar(&vcBlocksPath, "blocks", "", "input blocks file path")
	verifyCommitCmd.Flags().StringVar(&vcManifestPath, "manifest", "", "manifest file path to check against")
	_ = verifyCommitCmd.MarkFlagRequired("blocks")
	_ = verifyCommitCmd.MarkFlagRequired("manifest")
}
