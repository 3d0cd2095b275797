package fold

import (
	"bytes"

	"github.com/zeebo/blake3"

	"github.com/logannye/streaming-zero-knowledge-proofs/merkle"
	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
	"github.com/logannye/streaming-zero-knowledge-proofs/transcript"
)

// DSFold is the Fold gadget's transcript domain separator.
const DSFold = "fold/merge"

// Fold is C7: it combines two same-level children into one parent proof,
// checking adjacency and binding an opaque ARE argument plus the parent
// commitment.
type Fold interface {
	ProveFold(left, right Proof) (*FoldProof, error)
	VerifyFold(left, right Proof, p *FoldProof) error
}

// Blake3Fold is the sole Fold implementation.
type Blake3Fold struct{}

// combineCommitments computes the parent commitment. It calls through to
// merkle.Parent rather than re-implementing BLAKE3(left||right): this
// equality, shared by construction, is the linchpin tying the folding
// backend's top commitment to the Merkle root.
func combineCommitments(left, right Commitment) Commitment {
	return Commitment{Root: merkle.Parent(left.Root, right.Root), Len: left.Len + right.Len}
}

func computeFoldProof(left, right Endpoint, label string) (*FoldProof, error) {
	if left.BoundaryOut != right.BoundaryIn {
		return nil, sezkperr.New(sezkperr.KindBoundaryMismatch, label, "child boundary digests disagree")
	}

	cParent := combineCommitments(left.C, right.C)
	aux := deriveCombineAux(left.C, right.C)
	piParent := combine(left.Pi, right.Pi, aux)
	piCommit := commitPi(piParent)

	iw := InterfaceWitness{
		LeftCtrlOut:          left.Pi.CtrlOut,
		RightCtrlIn:          right.Pi.CtrlIn,
		BoundaryWritesDigest: boundaryWritesDigest(left, right),
	}
	areBytes := deriveAREBytes(iw, aux, piParent)

	tr := transcript.New(DSFold)
	if label != "" {
		tr.Absorb("label", []byte(label))
	}
	tr.Absorb("left.c.root", left.C.Root[:])
	tr.AbsorbU64("left.c.len", uint64(left.C.Len))
	tr.Absorb("right.c.root", right.C.Root[:])
	tr.AbsorbU64("right.c.len", uint64(right.C.Len))
	tr.Absorb("parent.c.root", cParent.Root[:])
	tr.AbsorbU64("parent.c.len", uint64(cParent.Len))
	tr.AbsorbU64("iw.left_ctrl_out", uint64(iw.LeftCtrlOut))
	tr.AbsorbU64("iw.right_ctrl_in", uint64(iw.RightCtrlIn))
	tr.Absorb("iw.boundary_writes", iw.BoundaryWritesDigest[:])
	tr.Absorb("are_bytes", areBytes)
	mac := tr.Challenge("mac", 32)

	p := &FoldProof{
		C: cParent, PiValue: piParent, PiCommit: piCommit,
		BoundaryIn: left.BoundaryIn, BoundaryOut: right.BoundaryOut,
		AREBytes: areBytes,
	}
	copy(p.Mac[:], mac)
	return p, nil
}

// deriveAREBytes computes the opaque algebraic-replay-equivalence argument
// bytes: a BLAKE3 MAC over the interface witness, combine auxiliary, and
// resulting parent π. Verifiers never parse these bytes beyond transcript
// absorption and recomputation.
func deriveAREBytes(iw InterfaceWitness, aux CombineAux, piParent Pi) []byte {
	h := blake3.New()
	h.Write([]byte("sezkp/fold/are/v1"))
	var buf [8]byte
	writeU32 := func(v uint32) { putU32(&buf, v); h.Write(buf[:4]) }
	writeU64 := func(v uint64) { putU64(&buf, v); h.Write(buf[:8]) }

	writeU32(iw.LeftCtrlOut)
	writeU32(iw.RightCtrlIn)
	h.Write(iw.BoundaryWritesDigest[:])
	for _, g := range aux.Gamma {
		writeU64(g)
	}
	writeU32(aux.FlagMask)
	writeU32(piParent.CtrlIn)
	writeU32(piParent.CtrlOut)
	writeU32(piParent.Flags)
	for _, a := range piParent.Acc {
		writeU64(a)
	}
	return h.Sum(nil)
}

func putU32(buf *[8]byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

func putU64(buf *[8]byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}

// ProveFold computes the canonical FoldProof combining left and right.
func (Blake3Fold) ProveFold(left, right Proof) (*FoldProof, error) {
	return computeFoldProof(left.Endpoint(), right.Endpoint(), "")
}

// VerifyFold recomputes the canonical FoldProof for (left, right) and
// checks it agrees with p field-by-field, then with p's MAC.
func (Blake3Fold) VerifyFold(left, right Proof, p *FoldProof) error {
	le, re := left.Endpoint(), right.Endpoint()
	want, err := computeFoldProof(le, re, "")
	if err != nil {
		return err
	}
	if want.C != p.C || want.PiCommit != p.PiCommit ||
		want.BoundaryIn != p.BoundaryIn || want.BoundaryOut != p.BoundaryOut ||
		!bytes.Equal(want.AREBytes, p.AREBytes) {
		return sezkperr.New(sezkperr.KindInternal, "", "fold proof fields disagree with recomputed values")
	}
	if want.Mac != p.Mac {
		return sezkperr.New(sezkperr.KindMacMismatch, "", "fold MAC does not verify")
	}
	return nil
}

// ProveFoldLabeled is ProveFold with an extra (level, index)-style label
// absorbed into the transcript. The scheduler uses it for every fold, so
// each MAC depends on the fold's tree position.
func ProveFoldLabeled(left, right Proof, label string) (*FoldProof, error) {
	return computeFoldProof(left.Endpoint(), right.Endpoint(), label)
}

// VerifyFoldLabeled mirrors ProveFoldLabeled.
func VerifyFoldLabeled(left, right Proof, p *FoldProof, label string) error {
	le, re := left.Endpoint(), right.Endpoint()
	want, err := computeFoldProof(le, re, label)
	if err != nil {
		return err
	}
	if want.C != p.C || want.PiCommit != p.PiCommit ||
		want.BoundaryIn != p.BoundaryIn || want.BoundaryOut != p.BoundaryOut ||
		!bytes.Equal(want.AREBytes, p.AREBytes) {
		return sezkperr.New(sezkperr.KindInternal, label, "fold proof fields disagree with recomputed values")
	}
	if want.Mac != p.Mac {
		return sezkperr.New(sezkperr.KindMacMismatch, label, "fold MAC does not verify")
	}
	return nil
}
