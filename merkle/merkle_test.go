package merkle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
)

func mkBlock(id uint32) block.Summary {
	return block.Summary{
		Version: 1, BlockID: id, StepLo: uint64(id-1)*4 + 1, StepHi: uint64(id) * 4,
		CtrlIn: 0, CtrlOut: 0, InHeadIn: 0, InHeadOut: 0,
		Windows:        Window2(),
		HeadInOffsets:  []uint32{0, 0},
		HeadOutOffsets: []uint32{0, 0},
	}
}

func Window2() []block.Window {
	return []block.Window{{Left: 0, Right: 1}, {Left: 0, Right: 0}}
}

func TestRootEmpty(t *testing.T) {
	assert.Equal(t, [32]byte{}, Root(nil))
}

func TestRootSingleLeafEqualsLeafHash(t *testing.T) {
	b := mkBlock(1)
	h := LeafHash(&b)
	assert.Equal(t, h, Root([][32]byte{h}))
}

func TestCommitAndValidateRoundtrip(t *testing.T) {
	blocks := []block.Summary{mkBlock(1), mkBlock(2), mkBlock(3)}
	m := CommitBlocks(blocks)
	assert.Equal(t, uint32(3), m.NLeaves)
	require.NoError(t, ValidateBlocks(blocks, m))
}

func TestValidateDetectsMutation(t *testing.T) {
	blocks := []block.Summary{mkBlock(1), mkBlock(2), mkBlock(3)}
	m := CommitBlocks(blocks)
	blocks[1].CtrlOut = 7
	err := ValidateBlocks(blocks, m)
	require.Error(t, err)
}

func TestValidateDetectsPermutation(t *testing.T) {
	blocks := []block.Summary{mkBlock(1), mkBlock(2), mkBlock(3)}
	m := CommitBlocks(blocks)
	permuted := []block.Summary{blocks[1], blocks[0], blocks[2]}
	err := ValidateBlocks(permuted, m)
	require.Error(t, err)
}

func TestStreamingMatchesBatchForOddCounts(t *testing.T) {
	for n := 1; n <= 9; n++ {
		blocks := make([]block.Summary, n)
		for i := 0; i < n; i++ {
			blocks[i] = mkBlock(uint32(i + 1))
		}
		batch := CommitBlocks(blocks)

		streamed, err := CommitStream(block.NewSliceIterator(blocks))
		require.NoError(t, err)
		assert.Equal(t, batch.Root, streamed.Root, "n=%d", n)
		assert.Equal(t, batch.NLeaves, streamed.NLeaves, "n=%d", n)
	}
}

func TestVerifyStreamDetectsLeafCountMismatch(t *testing.T) {
	blocks := []block.Summary{mkBlock(1), mkBlock(2)}
	m := CommitBlocks(blocks)
	short := blocks[:1]
	err := VerifyStream(block.NewSliceIterator(short), m)
	require.Error(t, err)
}

func TestVerifyStreamSchemaVersion(t *testing.T) {
	blocks := []block.Summary{mkBlock(1)}
	m := CommitBlocks(blocks)
	m.Version = 99
	err := VerifyStream(block.NewSliceIterator(blocks), m)
	require.Error(t, err)
}
