// Package leafhash computes the canonical BLAKE3 digest of a block.Summary:
// the single source of truth for the Merkle leaf layout shared by the
// merkle package and the fold package's Leaf gadget. Keeping one function
// rather than two independently-maintained copies makes the byte-identity
// invariant between the commitment and the leaf gadget hold by
// construction.
package leafhash

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
)

// Size is the digest length in bytes.
const Size = 32

// Hash writes s's fields to a BLAKE3 sink in exactly the declared order, all
// integers little-endian, with no framing or domain separator beyond the
// explicit sequence-length prefixes called out below. Any change to this
// function's field order or encoding breaks compatibility between the
// Merkle commitment and the Leaf gadget.
func Hash(s *block.Summary) [Size]byte {
	h := blake3.New()
	var buf [8]byte

	putU16(h, &buf, s.Version)
	putU32(h, &buf, s.BlockID)
	putU64(h, &buf, s.StepLo)
	putU64(h, &buf, s.StepHi)

	putU16(h, &buf, s.CtrlIn)
	putU16(h, &buf, s.CtrlOut)
	putI64(h, &buf, s.InHeadIn)
	putI64(h, &buf, s.InHeadOut)

	putU64(h, &buf, uint64(len(s.Windows)))
	for _, w := range s.Windows {
		putI64(h, &buf, w.Left)
		putI64(h, &buf, w.Right)
	}

	for _, v := range s.HeadInOffsets {
		putU32(h, &buf, v)
	}
	for _, v := range s.HeadOutOffsets {
		putU32(h, &buf, v)
	}

	putU64(h, &buf, uint64(len(s.MovementLog.Steps)))

	var out [Size]byte
	sum := h.Sum(nil)
	copy(out[:], sum)
	return out
}

func putU16(h *blake3.Hasher, buf *[8]byte, v uint16) {
	binary.LittleEndian.PutUint16(buf[:2], v)
	h.Write(buf[:2])
}

func putU32(h *blake3.Hasher, buf *[8]byte, v uint32) {
	binary.LittleEndian.PutUint32(buf[:4], v)
	h.Write(buf[:4])
}

func putU64(h *blake3.Hasher, buf *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(buf[:8], v)
	h.Write(buf[:8])
}

func putI64(h *blake3.Hasher, buf *[8]byte, v int64) {
	putU64(h, buf, uint64(v))
}
