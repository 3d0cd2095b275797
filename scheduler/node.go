package scheduler

import "github.com/logannye/streaming-zero-knowledge-proofs/fold"

// endpointProof adapts a bare fold.Endpoint to the fold.Proof interface, so
// MinRAM mode can drive fold.Blake3Fold.ProveFold/VerifyFold from a node
// whose full body has already been spilled to the sidecar and discarded
// from memory.
type endpointProof struct {
	kind fold.NodeKind
	ep   fold.Endpoint
}

func (p endpointProof) Kind() fold.NodeKind     { return p.kind }
func (p endpointProof) Endpoint() fold.Endpoint { return p.ep }

// node is one entry on the pending ladder: the proof (full body in Balanced
// mode, endpoint-only in MinRAM mode) plus its tree coordinates, used both
// to label folds and to key the verify-side EndpointCache.
type node struct {
	level uint32
	index uint32 // 0-based position among nodes at this level, left to right
	proof fold.Proof

	// sidecarIdx is the node's index into the sidecar stream, set when
	// its full body has been spilled (MinRAM mode only). -1 when the
	// node's body is held inline (proof already carries it).
	sidecarIdx int32
}
