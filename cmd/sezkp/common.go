package main

import (
	"os"
	"path/filepath"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/scheduler"
	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

// blockOpener returns a factory producing fresh, independent iterators over
// the blocks file at path: each call re-reads a streamed file from disk, or
// re-wraps a once-loaded in-memory slice, so a single CLI invocation can
// iterate the same block sequence more than once (a commit precheck, then
// the fold pass) without the two passes interfering.
func blockOpener(path string, stream bool) func() (block.Iterator, func() error, error) {
	if stream {
		return func() (block.Iterator, func() error, error) {
			return block.StreamAuto(path)
		}
	}
	var cached []block.Summary
	var loaded bool
	return func() (block.Iterator, func() error, error) {
		if !loaded {
			blocks, err := block.ReadAuto(path)
			if err != nil {
				return nil, nil, err
			}
			cached = blocks
			loaded = true
		}
		return block.NewSliceIterator(cached), func() error { return nil }, nil
	}
}

// sidecarPathFor derives the default MinRAM sidecar path for a proof bundle
// file, per the documented on-disk convention: a proof at "foo.cbor" spills
// its sidecar to "foo.cbor.cborseq".
func sidecarPathFor(proofPath string) string {
	return proofPath + ".cborseq"
}

func foldModeOf(s string) (scheduler.FoldMode, error) {
	switch s {
	case "balanced":
		return scheduler.Balanced, nil
	case "minram":
		return scheduler.MinRAM, nil
	default:
		return 0, sezkperr.New(sezkperr.KindDecodeFormat, s, "--fold-mode must be \"balanced\" or \"minram\"")
	}
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sezkperr.Wrap(sezkperr.KindIO, path, "create parent directory", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return sezkperr.Wrap(sezkperr.KindIO, path, "write file", err)
	}
	return nil
}
