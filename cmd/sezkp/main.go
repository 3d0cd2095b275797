// Command sezkp is the streaming-zero-knowledge-proof pipeline's CLI: it
// simulates or ingests computation traces, commits block streams to a
// canonical Merkle root, and drives the fold scheduler to produce and
// verify proof bundles.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

var rootCmd = &cobra.Command{
	Use:   "sezkp",
	Short: "streaming zero-knowledge proofs over long computation traces",
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(sezkperr.ExitCode(err))
	}
}
