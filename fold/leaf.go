package fold

import (
	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/leafhash"
	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
	"github.com/logannye/streaming-zero-knowledge-proofs/transcript"
)

// DSLeaf is the Leaf gadget's transcript domain separator.
const DSLeaf = "fold/leaf"

// Leaf is C6: it produces a proof binding a single block to its leaf
// commitment, π-commit, boundary digests, and a transcript MAC.
type Leaf interface {
	ProveLeaf(b block.Summary) (*LeafProof, error)
	VerifyLeaf(b block.Summary, p *LeafProof) error
}

// Blake3Leaf is the sole Leaf implementation.
type Blake3Leaf struct{}

func computeLeafProof(b block.Summary) *LeafProof {
	leafDigest := leafhash.Hash(&b)
	c := Commitment{Root: leafDigest, Len: 1}
	pi := derivePi(leafDigest, b.CtrlIn, b.CtrlOut, uint32(len(b.Windows)))
	piCommit := commitPi(pi)
	boundaryIn := boundaryDigest(&b, false)
	boundaryOut := boundaryDigest(&b, true)

	tr := transcript.New(DSLeaf)
	tr.Absorb("c.root", c.Root[:])
	tr.AbsorbU64("c.len", uint64(c.Len))
	tr.Absorb("pi_commit", piCommit[:])
	tr.Absorb("boundary_in", boundaryIn[:])
	tr.Absorb("boundary_out", boundaryOut[:])
	mac := tr.Challenge("mac", 32)

	p := &LeafProof{
		C: c, PiValue: pi, PiCommit: piCommit,
		BoundaryIn: boundaryIn, BoundaryOut: boundaryOut,
	}
	copy(p.Mac[:], mac)
	return p
}

// ProveLeaf computes the canonical LeafProof for b.
func (Blake3Leaf) ProveLeaf(b block.Summary) (*LeafProof, error) {
	return computeLeafProof(b), nil
}

// VerifyLeaf recomputes the canonical LeafProof for b and checks it agrees
// with p field-by-field, then with p's MAC.
func (Blake3Leaf) VerifyLeaf(b block.Summary, p *LeafProof) error {
	want := computeLeafProof(b)
	if want.C != p.C || want.PiCommit != p.PiCommit ||
		want.BoundaryIn != p.BoundaryIn || want.BoundaryOut != p.BoundaryOut {
		return sezkperr.New(sezkperr.KindInternal, itoaBlock(b.BlockID), "leaf proof fields disagree with recomputed values")
	}
	if want.Mac != p.Mac {
		return sezkperr.New(sezkperr.KindMacMismatch, itoaBlock(b.BlockID), "leaf MAC does not verify")
	}
	return nil
}

func itoaBlock(u uint32) string {
	if u == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	return string(buf[i:])
}
