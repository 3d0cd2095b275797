package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
)

func mkBlock(id uint32, ctrlIn, ctrlOut uint16) block.Summary {
	return block.Summary{
		Version: 1, BlockID: id, StepLo: uint64(id-1)*4 + 1, StepHi: uint64(id) * 4,
		CtrlIn: ctrlIn, CtrlOut: ctrlOut, InHeadIn: 0, InHeadOut: 0,
		Windows:        []block.Window{{Left: -1, Right: 1}},
		HeadInOffsets:  []uint32{1},
		HeadOutOffsets: []uint32{1},
		MovementLog: block.MovementLog{Steps: []block.StepProjection{
			{InputMv: 1, Tapes: []block.TapeOp{{Mv: 1}}},
			{InputMv: 0, Tapes: []block.TapeOp{{Mv: -1}}},
		}},
	}
}

func TestLeafProveVerifyRoundTrip(t *testing.T) {
	var leaf Blake3Leaf
	b := mkBlock(1, 0, 0)
	p, err := leaf.ProveLeaf(b)
	require.NoError(t, err)
	require.NoError(t, leaf.VerifyLeaf(b, p))
}

func TestLeafVerifyRejectsTamperedMac(t *testing.T) {
	var leaf Blake3Leaf
	b := mkBlock(1, 0, 0)
	p, err := leaf.ProveLeaf(b)
	require.NoError(t, err)
	p.Mac[0] ^= 0xFF
	err = leaf.VerifyLeaf(b, p)
	require.Error(t, err)
}

func TestFoldAdjacentLeavesProveVerify(t *testing.T) {
	var leaf Blake3Leaf
	var f Blake3Fold

	left := mkBlock(1, 0, 7)
	right := mkBlock(2, 7, 0)
	// left.CtrlOut == right.CtrlIn and both in_head_out/in_head_in are 0,
	// so the boundary digests (ctrl, in_head only) already agree.

	lp, err := leaf.ProveLeaf(left)
	require.NoError(t, err)
	rp, err := leaf.ProveLeaf(right)
	require.NoError(t, err)

	fp, err := f.ProveFold(lp, rp)
	require.NoError(t, err)
	require.NoError(t, f.VerifyFold(lp, rp, fp))

	assert.Equal(t, uint32(2), fp.C.Len)
}

func TestFoldRejectsBoundaryMismatch(t *testing.T) {
	var leaf Blake3Leaf
	var f Blake3Fold

	left := mkBlock(1, 0, 1)
	right := mkBlock(2, 9, 0) // unrelated boundary shape

	lp, _ := leaf.ProveLeaf(left)
	rp, _ := leaf.ProveLeaf(right)

	_, err := f.ProveFold(lp, rp)
	require.Error(t, err)
}

func TestWrapProveVerifyRoundTrip(t *testing.T) {
	var leaf Blake3Leaf
	var wrap Blake3Wrap

	b := mkBlock(1, 0, 0)
	lp, err := leaf.ProveLeaf(b)
	require.NoError(t, err)

	wp, err := wrap.ProveWrap(lp)
	require.NoError(t, err)
	require.NoError(t, wrap.VerifyWrap(lp, wp))
	assert.Equal(t, lp.C, wp.C)
}

func TestCombineIsWraparoundAndOrderSensitive(t *testing.T) {
	left := Pi{CtrlIn: 1, CtrlOut: 2, Acc: [4]uint64{^uint64(0), 1, 2, 3}}
	right := Pi{CtrlIn: 2, CtrlOut: 3, Acc: [4]uint64{1, 1, 1, 1}}
	aux := CombineAux{}

	parent := combine(left, right, aux)
	assert.Equal(t, uint64(0), parent.Acc[0]) // wraps around on overflow
	assert.Equal(t, left.CtrlIn, parent.CtrlIn)
	assert.Equal(t, right.CtrlOut, parent.CtrlOut)
}
