package fold

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
)

// boundaryDigest computes the entry (isExit == false) or exit
// (isExit == true) boundary digest for b: a BLAKE3 hash over the block's
// control/head snapshot at that end. Only ctrl and in_head are continuous
// across a real block boundary (a partitioner recomputes per-tape windows,
// head offsets, and movement-log steps relative to each block's own local
// coordinates), so only those two fields are bound here under a single,
// role-independent domain separator: two adjacent blocks are well-formed
// exactly when the exit digest of the left block equals the entry digest
// of the right.
func boundaryDigest(b *block.Summary, isExit bool) [32]byte {
	h := blake3.New()
	h.Write([]byte("sezkp/iface/boundary/v1"))

	ctrl := b.CtrlIn
	inHead := b.InHeadIn
	if isExit {
		ctrl = b.CtrlOut
		inHead = b.InHeadOut
	}

	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], ctrl)
	h.Write(buf[:2])
	binary.LittleEndian.PutUint64(buf[:8], uint64(inHead))
	h.Write(buf[:8])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// boundaryWritesDigest summarizes the write activity straddling a fold
// boundary: a BLAKE3 hash of the two adjacent endpoints' boundary digests,
// folded into the ARE bytes so the replay argument is bound to the same
// boundary the adjacency check already enforces structurally.
func boundaryWritesDigest(left, right Endpoint) [32]byte {
	h := blake3.New()
	h.Write([]byte("sezkp/fold/boundary-writes"))
	h.Write(left.BoundaryOut[:])
	h.Write(right.BoundaryIn[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
