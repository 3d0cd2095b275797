package fold

import (
	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
	"github.com/logannye/streaming-zero-knowledge-proofs/transcript"
)

// DSWrap is the Wrap gadget's transcript domain separator.
const DSWrap = "fold/wrap"

// Wrap is C8: it periodically rebinds the current top-of-tree (C, π-commit)
// under a fresh transcript to reduce transcript depth. It never replaces
// the node it wraps.
type Wrap interface {
	ProveWrap(p Proof) (*WrapProof, error)
	VerifyWrap(p Proof, w *WrapProof) error
}

// Blake3Wrap is the sole Wrap implementation.
type Blake3Wrap struct{}

func computeWrapProof(e Endpoint) *WrapProof {
	piCommit := commitPi(e.Pi)
	tr := transcript.New(DSWrap)
	tr.Absorb("c.root", e.C.Root[:])
	tr.AbsorbU64("c.len", uint64(e.C.Len))
	tr.Absorb("pi_commit", piCommit[:])
	mac := tr.Challenge("mac", 32)

	w := &WrapProof{C: e.C, PiCommit: piCommit}
	copy(w.Mac[:], mac)
	return w
}

// ProveWrap computes the canonical WrapProof for the current top node p.
func (Blake3Wrap) ProveWrap(p Proof) (*WrapProof, error) {
	return computeWrapProof(p.Endpoint()), nil
}

// VerifyWrap recomputes the canonical WrapProof for p and checks it agrees
// with w.
func (Blake3Wrap) VerifyWrap(p Proof, w *WrapProof) error {
	want := computeWrapProof(p.Endpoint())
	if want.C != w.C || want.PiCommit != w.PiCommit {
		return sezkperr.New(sezkperr.KindInternal, "", "wrap proof fields disagree with recomputed values")
	}
	if want.Mac != w.Mac {
		return sezkperr.New(sezkperr.KindMacMismatch, "", "wrap MAC does not verify")
	}
	return nil
}
