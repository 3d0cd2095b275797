package scheduler

import (
	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/fold"
)

// LeafRecord is one leaf proof's place in a bundle: either the body itself
// (balanced mode) or a reference to its sidecar record (minram mode).
// C is always populated, even when Body is spilled to the sidecar, so the
// bundle's top commitment can be read without a sidecar round trip.
type LeafRecord struct {
	C          fold.Commitment
	Body       *fold.LeafProof
	SidecarIdx int32 // -1 when Body is set inline
}

// FoldRecord is one interior fold proof's place in a bundle. C is always
// populated, even when Body is spilled to the sidecar.
type FoldRecord struct {
	C          fold.Commitment
	Body       *fold.FoldProof
	SidecarIdx int32
}

// WrapRecord is a wrap proof emitted after the fold at AfterFold (a 0-based
// index into Bundle.Folds) completed.
type WrapRecord struct {
	AfterFold int
	Body      *fold.WrapProof
}

// FoldProofBundle is the top-level proof artifact: every leaf and interior
// fold node produced while traversing the block stream, in production
// order, plus any wrap proofs emitted at cadence.
type FoldProofBundle struct {
	NBlocks  uint32
	TreeSpan block.Interval
	Leaves   []LeafRecord
	Folds    []FoldRecord
	Wraps    []WrapRecord
}

// TopCommitment returns the bundle's root commitment: the last fold's
// commitment, or the sole leaf's commitment when there is exactly one
// block, or the zero commitment for an empty bundle. Reads each record's C
// field directly rather than its Body, which is nil for sidecar-backed
// MinRAM records.
func (b *FoldProofBundle) TopCommitment() fold.Commitment {
	if n := len(b.Folds); n > 0 {
		return b.Folds[n-1].C
	}
	if n := len(b.Leaves); n > 0 {
		return b.Leaves[n-1].C
	}
	return fold.Commitment{}
}
