// Package fold implements the Leaf, Fold, and Wrap proof gadgets: the
// folding backend that combines per-block leaf proofs into a single
// top-level proof whose commitment is bit-identical to the merkle
// package's root. The gadgets are modeled as a tagged sum (the Proof
// interface plus concrete LeafProof/FoldProof/WrapProof types), not a class
// hierarchy, per this pipeline's preference for explicit dynamic dispatch
// over inheritance.
package fold

import "github.com/logannye/streaming-zero-knowledge-proofs/block"

// Commitment is the (root, length) pair carried by every proof node: root
// is a BLAKE3 digest (a leaf hash, or a fold parent combine), len is the
// number of leaves the subtree covers.
type Commitment struct {
	Root [32]byte
	Len  uint32
}

// Pi is the algebraic-replay-equivalence projection carried up the fold
// tree: a constant-size public view consisting of the boundary control
// states and four accumulator limbs, combined at each fold by wrapping
// addition. Its exact byte layout is intentionally opaque to callers beyond
// transcript absorption, per the π-commit design note.
type Pi struct {
	CtrlIn, CtrlOut uint32
	Flags           uint32
	Acc             [4]uint64
}

// CombineAux is the public, independently-derivable auxiliary input to the
// ARE combiner: a blinding-style offset derived from the two child
// commitments so a verifier can recompute it without any extra proof
// material.
type CombineAux struct {
	Gamma    [4]uint64
	FlagMask uint32
}

// InterfaceWitness names the boundary quantities a fold step must agree on:
// the left child's exit control state, the right child's entry control
// state, and a digest of the boundary's write activity. It is folded into
// the opaque ARE bytes so the replay argument is bound to the same
// boundary the adjacency check already enforces structurally.
type InterfaceWitness struct {
	LeftCtrlOut          uint32
	RightCtrlIn          uint32
	BoundaryWritesDigest [32]byte
}

// TrivialInterfaceWitness returns the zero-valued InterfaceWitness, for a
// boundary with no adjacent sibling. The fold gadget does not call it.
func TrivialInterfaceWitness() InterfaceWitness {
	return InterfaceWitness{}
}

// NodeKind tags which gadget produced a Proof.
type NodeKind int

const (
	NodeLeaf NodeKind = iota
	NodeFold
)

func (k NodeKind) String() string {
	if k == NodeLeaf {
		return "leaf"
	}
	return "fold"
}

// Endpoint is the small, constant-size projection of a proof node that the
// Fold and Wrap gadgets need: enough to check adjacency and compute the
// parent commitment/π without holding the full proof body. Balanced mode
// keeps full bodies; minram mode keeps only Endpoints on the pending
// ladder, and verify loads spilled bodies back from the sidecar.
type Endpoint struct {
	C                     Commitment
	Pi                    Pi
	BoundaryIn, BoundaryOut [32]byte
	Mac                   [32]byte
}

// Proof is the tagged-sum interface every gadget output satisfies.
type Proof interface {
	Kind() NodeKind
	Endpoint() Endpoint
}

// LeafProof is C6's output: the binding of a single block.Summary to its
// leaf commitment, π-commit, boundary digests, and transcript MAC.
type LeafProof struct {
	C                     Commitment
	PiValue               Pi
	PiCommit              [32]byte
	BoundaryIn, BoundaryOut [32]byte
	Mac                   [32]byte
}

func (p *LeafProof) Kind() NodeKind { return NodeLeaf }

func (p *LeafProof) Endpoint() Endpoint {
	return Endpoint{C: p.C, Pi: p.PiValue, BoundaryIn: p.BoundaryIn, BoundaryOut: p.BoundaryOut, Mac: p.Mac}
}

// FoldProof is C7's output: the combination of two same-level children into
// one parent node, bound to an opaque ARE argument.
type FoldProof struct {
	C                     Commitment
	PiValue               Pi
	PiCommit              [32]byte
	BoundaryIn, BoundaryOut [32]byte
	AREBytes              []byte
	Mac                   [32]byte
}

func (p *FoldProof) Kind() NodeKind { return NodeFold }

func (p *FoldProof) Endpoint() Endpoint {
	return Endpoint{C: p.C, Pi: p.PiValue, BoundaryIn: p.BoundaryIn, BoundaryOut: p.BoundaryOut, Mac: p.Mac}
}

// WrapProof is C8's output: a periodic transcript-rebinding of the current
// top-of-tree (C, π-commit). It never replaces the FoldProof it wraps —
// both are retained in the bundle — and never alters the commitment it
// rebinds, so the top-level identity always matches the manifest root
// regardless of wrap cadence.
type WrapProof struct {
	C        Commitment
	PiCommit [32]byte
	Mac      [32]byte
}

// blockSummary is a package-local alias for block.Summary. Nothing in the
// package refers to it; boundaryDigest takes *block.Summary directly.
type blockSummary = block.Summary
