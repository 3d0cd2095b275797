package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logannye/streaming-zero-knowledge-proofs/config"
	"github.com/logannye/streaming-zero-knowledge-proofs/merkle"
	"github.com/logannye/streaming-zero-knowledge-proofs/scheduler"
	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

var (
	verifyBackend         string
	verifyBlocksPath      string
	verifyManifestPath    string
	verifyProofPath       string
	verifyAssumeCommitted bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "verify a proof bundle against a block stream and manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		if verifyBackend == "stark" {
			return sezkperr.New(sezkperr.KindInternal, "", "backend \"stark\" is not implemented")
		}
		if verifyBackend != "fold" {
			return sezkperr.New(sezkperr.KindInternal, verifyBackend, "unknown backend")
		}

		want, err := merkle.ReadManifestAuto(verifyManifestPath)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(verifyProofPath)
		if err != nil {
			return sezkperr.Wrap(sezkperr.KindIO, verifyProofPath, "read proof bundle file", err)
		}
		bundle, err := scheduler.DecodeBundle(data)
		if err != nil {
			return sezkperr.Wrap(sezkperr.KindDecodeFormat, verifyProofPath, "decode proof bundle", err)
		}

		opener := blockOpener(verifyBlocksPath, true)

		if !verifyAssumeCommitted {
			it, closeFn, err := opener()
			if err != nil {
				return err
			}
			verr := merkle.VerifyStream(it, want)
			closeFn()
			if verr != nil {
				return verr
			}
		}

		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		if cfg.ProofStreamPath == "" {
			// The bundle itself (not cfg.Mode, which verify has no flag to
			// set) determines whether a sidecar is actually needed;
			// VerifyBundle ignores this path entirely when it is not.
			cfg.ProofStreamPath = sidecarPathFor(verifyProofPath)
		}

		it, closeFn, err := opener()
		if err != nil {
			return err
		}
		defer closeFn()

		vo := scheduler.VerifyOptions{
			SidecarPath:       cfg.ProofStreamPath,
			EndpointCacheSize: cfg.FoldCacheSize,
		}
		if err := scheduler.VerifyBundle(it, bundle, want, vo); err != nil {
			return err
		}

		fmt.Println("OK: proof verified")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyBackend, "backend", "fold", "proof backend: fold or stark")
	verifyCmd.Flags().StringVar(&verifyBlocksPath, "blocks", "", "input blocks file path")
	verifyCmd.Flags().StringVar(&verifyManifestPath, "manifest", "", "manifest file path")
	verifyCmd.Flags().StringVar(&verifyProofPath, "proof", "", "proof bundle file path")
	verifyCmd.Flags().BoolVar(&verifyAssumeCommitted, "assume-committed", false, "skip the redundant precheck that blocks already commit to --manifest")
	_ = verifyCmd.MarkFlagRequired("blocks")
	_ = verifyCmd.MarkFlagRequired("manifest")
	_ = verifyCmd.MarkFlagRequired("proof")
}
