package trace

import (
	"math"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

// Partition chunks f into contiguous blocks of b steps (the final block may
// be shorter), producing block.Summary values whose windows and head
// offsets are exactly large enough to contain every post-move head position
// the block touches — the ARE's "move then (optionally) write" semantics.
//
// An empty trace yields no blocks and no error, whatever b is. For a
// non-empty trace, Partition returns a KindInternal error if b == 0; ctrl_in/ctrl_out are
// left at their advisory zero value, as in the original partitioner (a
// finite-control VM isn't modeled by the toy generator).
func Partition(f *File, b uint32) ([]block.Summary, error) {
	t := len(f.Steps)
	if t == 0 {
		return nil, nil
	}
	if b == 0 {
		return nil, sezkperr.New(sezkperr.KindInternal, "", "partition: block size b must be > 0")
	}

	tau := int(f.Tau)
	blockSize := int(b)
	var globalInputHead int64

	var out []block.Summary
	k := uint32(1)

	for chunkStart := 0; chunkStart < t; chunkStart += blockSize {
		chunkEnd := chunkStart + blockSize
		if chunkEnd > t {
			chunkEnd = t
		}
		chunkSteps := f.Steps[chunkStart:chunkEnd]

		curHeads := make([]int64, tau)
		minPos := make([]int64, tau)
		maxPos := make([]int64, tau)

		inHeadIn := globalInputHead
		for _, st := range chunkSteps {
			globalInputHead += int64(st.InputMv)
			for r, op := range st.Tapes {
				curHeads[r] += int64(op.Mv)
				if curHeads[r] < minPos[r] {
					minPos[r] = curHeads[r]
				}
				if curHeads[r] > maxPos[r] {
					maxPos[r] = curHeads[r]
				}
			}
		}
		inHeadOut := globalInputHead

		windows := make([]block.Window, tau)
		headInOffsets := make([]uint32, tau)
		headOutOffsets := make([]uint32, tau)
		for r := 0; r < tau; r++ {
			left, right := minPos[r], maxPos[r]
			windows[r] = block.Window{Left: left, Right: right}

			offIn := 0 - left
			offOut := curHeads[r] - left
			headInOffsets[r] = clampU32(offIn)
			headOutOffsets[r] = clampU32(offOut)
		}

		projSteps := make([]block.StepProjection, len(chunkSteps))
		for i, st := range chunkSteps {
			tapes := make([]block.TapeOp, len(st.Tapes))
			for r, op := range st.Tapes {
				tapes[r] = block.TapeOp{Write: op.Write, Mv: op.Mv}
			}
			projSteps[i] = block.StepProjection{InputMv: st.InputMv, Tapes: tapes}
		}

		out = append(out, block.Summary{
			Version: 1, BlockID: k,
			StepLo: uint64(chunkStart) + 1, StepHi: uint64(chunkEnd),
			CtrlIn: 0, CtrlOut: 0,
			InHeadIn: inHeadIn, InHeadOut: inHeadOut,
			Windows:        windows,
			HeadInOffsets:  headInOffsets,
			HeadOutOffsets: headOutOffsets,
			MovementLog:    block.MovementLog{Steps: projSteps},
			PreTags:        make([]block.Tag, tau),
			PostTags:       make([]block.Tag, tau),
		})
		k++
	}

	return out, nil
}

// clampU32 converts a non-negative-by-construction offset to u32, clamping
// to math.MaxUint32 on overflow rather than panicking — extremely large
// blocks could overflow, and this prototype stays total rather than erroring.
func clampU32(v int64) uint32 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
