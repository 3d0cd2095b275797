package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logannye/streaming-zero-knowledge-proofs/config"
	"github.com/logannye/streaming-zero-knowledge-proofs/merkle"
	"github.com/logannye/streaming-zero-knowledge-proofs/scheduler"
	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

var (
	proveBackend         string
	proveBlocksPath      string
	proveManifestPath    string
	proveOutPath         string
	proveFoldMode        string
	proveFoldCache       int
	proveWrapCadence     uint32
	proveStream          bool
	proveAssumeCommitted bool
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "drive the fold scheduler over a block stream and emit a proof bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		if proveBackend == "stark" {
			return sezkperr.New(sezkperr.KindInternal, "", "backend \"stark\" is not implemented")
		}
		if proveBackend != "fold" {
			return sezkperr.New(sezkperr.KindInternal, proveBackend, "unknown backend")
		}

		opener := blockOpener(proveBlocksPath, proveStream)

		if !proveAssumeCommitted {
			want, err := merkle.ReadManifestAuto(proveManifestPath)
			if err != nil {
				return err
			}
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

		var opts []config.Option
		if cmd.Flags().Changed("fold-mode") {
			mode, err := foldModeOf(proveFoldMode)
			if err != nil {
				return err
			}
			opts = append(opts, config.WithMode(mode))
		}
		if cmd.Flags().Changed("fold-cache") {
			opts = append(opts, config.WithFoldCacheSize(proveFoldCache))
		}
		if cmd.Flags().Changed("wrap-cadence") {
			opts = append(opts, config.WithWrapCadence(proveWrapCadence))
		}
		cfg, err := config.FromEnv(opts...)
		if err != nil {
			return err
		}
		if cfg.Mode == scheduler.MinRAM && cfg.ProofStreamPath == "" {
			cfg.ProofStreamPath = sidecarPathFor(proveOutPath)
		}

		it, closeFn, err := opener()
		if err != nil {
			return err
		}
		defer closeFn()

		drv, err := scheduler.NewDriver(cfg.ToSchedulerOptions(0))
		if err != nil {
			return err
		}
		for {
			b, ok, err := it.Next()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			if err := drv.Push(b); err != nil {
				return err
			}
		}
		bundle, err := drv.Finish()
		if err != nil {
			return err
		}

		data, err := scheduler.EncodeBundle(bundle)
		if err != nil {
			return sezkperr.Wrap(sezkperr.KindInternal, proveOutPath, "encode proof bundle", err)
		}
		if err := writeFile(proveOutPath, data); err != nil {
			return err
		}
		fmt.Printf("wrote proof for %d blocks to %s\n", bundle.NBlocks, proveOutPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().StringVar(&proveBackend, "backend", "fold", "proof backend: fold or stark")
	proveCmd.Flags().StringVar(&proveBlocksPath, "blocks", "", "input blocks file path")
	proveCmd.Flags().StringVar(&proveManifestPath, "manifest", "", "manifest file path the blocks must already commit to")
	proveCmd.Flags().StringVar(&proveOutPath, "out", "", "output proof bundle file path")
	proveCmd.Flags().StringVar(&proveFoldMode, "fold-mode", "balanced", "scheduler memory regime: balanced or minram")
	proveCmd.Flags().IntVar(&proveFoldCache, "fold-cache", 0, "verify-side endpoint cache capacity (minram only)")
	proveCmd.Flags().Uint32Var(&proveWrapCadence, "wrap-cadence", 0, "emit a wrap proof every N folds (0 disables)")
	proveCmd.Flags().BoolVar(&proveStream, "stream", false, "ingest blocks via one-pass streaming instead of materializing the sequence")
	proveCmd.Flags().BoolVar(&proveAssumeCommitted, "assume-committed", false, "skip the precheck that blocks already commit to --manifest")
	_ = proveCmd.MarkFlagRequired("blocks")
	_ = proveCmd.MarkFlagRequired("manifest")
	_ = proveCmd.MarkFlagRequired("out")
}
