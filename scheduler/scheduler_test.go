package scheduler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/merkle"
)

func truncateFile(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.NoError(t, os.WriteFile(path, data[:len(data)-1], 0o644))
}

// chainBlocks builds n blocks with identical window/head shape and a shared
// movement log, chaining CtrlOut(i) into CtrlIn(i+1), so every adjacent pair
// has matching boundary digests.
func chainBlocks(n int) []block.Summary {
	steps := []block.StepProjection{
		{InputMv: 1, Tapes: []block.TapeOp{{Mv: 1}}},
		{InputMv: 0, Tapes: []block.TapeOp{{Mv: -1}}},
	}
	out := make([]block.Summary, n)
	for i := 0; i < n; i++ {
		out[i] = block.Summary{
			Version: 1, BlockID: uint32(i + 1),
			StepLo: uint64(i)*2 + 1, StepHi: uint64(i+1) * 2,
			CtrlIn: uint16(i), CtrlOut: uint16(i + 1),
			InHeadIn: 0, InHeadOut: 0,
			Windows:        []block.Window{{Left: -1, Right: 1}},
			HeadInOffsets:  []uint32{1},
			HeadOutOffsets: []uint32{1},
			MovementLog:    block.MovementLog{Steps: steps},
		}
	}
	return out
}

func TestSchedulerBalancedMatchesMerkleRoot(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 9, 16, 17} {
		blocks := chainBlocks(n)
		manifest := merkle.CommitBlocks(blocks)

		d, err := NewDriver(Options{Mode: Balanced})
		require.NoError(t, err)
		for _, b := range blocks {
			require.NoError(t, d.Push(b))
		}
		bundle, err := d.Finish()
		require.NoError(t, err)

		top := bundle.TopCommitment()
		assert.Equal(t, manifest.Root, top.Root, "n=%d", n)
		assert.Equal(t, manifest.NLeaves, top.Len, "n=%d", n)

		it := block.NewSliceIterator(blocks)
		err = VerifyBundle(it, bundle, manifest, VerifyOptions{})
		require.NoError(t, err, "n=%d", n)
	}
}

func TestSchedulerMinRAMMatchesBalanced(t *testing.T) {
	for _, n := range []int{1, 2, 5, 7, 8, 13} {
		blocks := chainBlocks(n)
		manifest := merkle.CommitBlocks(blocks)
		sidecarPath := filepath.Join(t.TempDir(), "sidecar.bin")

		d, err := NewDriver(Options{Mode: MinRAM, SidecarPath: sidecarPath})
		require.NoError(t, err)
		for _, b := range blocks {
			require.NoError(t, d.Push(b))
		}
		bundle, err := d.Finish()
		require.NoError(t, err)

		top := bundle.TopCommitment()
		assert.Equal(t, manifest.Root, top.Root, "n=%d", n)

		it := block.NewSliceIterator(blocks)
		err = VerifyBundle(it, bundle, manifest, VerifyOptions{SidecarPath: sidecarPath, EndpointCacheSize: 8})
		require.NoError(t, err, "n=%d", n)
	}
}

func TestSchedulerPushBatchParallelMatchesSequential(t *testing.T) {
	blocks := chainBlocks(11)
	manifest := merkle.CommitBlocks(blocks)

	d, err := NewDriver(Options{Mode: Balanced, Parallelism: 4})
	require.NoError(t, err)
	require.NoError(t, d.PushBatch(blocks))
	bundle, err := d.Finish()
	require.NoError(t, err)

	top := bundle.TopCommitment()
	assert.Equal(t, manifest.Root, top.Root)
}

func TestSchedulerWrapCadence(t *testing.T) {
	blocks := chainBlocks(10)
	d, err := NewDriver(Options{Mode: Balanced, WrapCadence: 2})
	require.NoError(t, err)
	for _, b := range blocks {
		require.NoError(t, d.Push(b))
	}
	bundle, err := d.Finish()
	require.NoError(t, err)

	require.NotEmpty(t, bundle.Wraps)
	for _, w := range bundle.Wraps {
		require.GreaterOrEqual(t, w.AfterFold, 0)
		require.Less(t, w.AfterFold, len(bundle.Folds))
	}

	manifest := merkle.CommitBlocks(blocks)
	it := block.NewSliceIterator(blocks)
	require.NoError(t, VerifyBundle(it, bundle, manifest, VerifyOptions{}))
}

func TestSchedulerWrapCadenceZeroEmitsNoWraps(t *testing.T) {
	blocks := chainBlocks(6)
	d, err := NewDriver(Options{Mode: Balanced, WrapCadence: 0})
	require.NoError(t, err)
	for _, b := range blocks {
		require.NoError(t, d.Push(b))
	}
	bundle, err := d.Finish()
	require.NoError(t, err)
	assert.Empty(t, bundle.Wraps)
}

func TestSchedulerDetectsTamperedFoldMac(t *testing.T) {
	blocks := chainBlocks(4)
	d, err := NewDriver(Options{Mode: Balanced})
	require.NoError(t, err)
	for _, b := range blocks {
		require.NoError(t, d.Push(b))
	}
	bundle, err := d.Finish()
	require.NoError(t, err)
	require.NotEmpty(t, bundle.Folds)
	bundle.Folds[0].Body.Mac[0] ^= 0xFF

	manifest := merkle.CommitBlocks(blocks)
	it := block.NewSliceIterator(blocks)
	err = VerifyBundle(it, bundle, manifest, VerifyOptions{})
	require.Error(t, err)
}

func TestSchedulerDetectsTruncatedSidecar(t *testing.T) {
	blocks := chainBlocks(5)
	manifest := merkle.CommitBlocks(blocks)
	sidecarPath := filepath.Join(t.TempDir(), "sidecar.bin")

	d, err := NewDriver(Options{Mode: MinRAM, SidecarPath: sidecarPath})
	require.NoError(t, err)
	for _, b := range blocks {
		require.NoError(t, d.Push(b))
	}
	bundle, err := d.Finish()
	require.NoError(t, err)

	truncateFile(t, sidecarPath)

	it := block.NewSliceIterator(blocks)
	err = VerifyBundle(it, bundle, manifest, VerifyOptions{SidecarPath: sidecarPath})
	require.Error(t, err)
}

func TestSchedulerEndpointCacheZeroStillVerifies(t *testing.T) {
	blocks := chainBlocks(9)
	manifest := merkle.CommitBlocks(blocks)
	sidecarPath := filepath.Join(t.TempDir(), "sidecar.bin")

	d, err := NewDriver(Options{Mode: MinRAM, WrapCadence: 1, SidecarPath: sidecarPath})
	require.NoError(t, err)
	for _, b := range blocks {
		require.NoError(t, d.Push(b))
	}
	bundle, err := d.Finish()
	require.NoError(t, err)

	it := block.NewSliceIterator(blocks)
	err = VerifyBundle(it, bundle, manifest, VerifyOptions{SidecarPath: sidecarPath, EndpointCacheSize: 0})
	require.NoError(t, err)
}
