package fold

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// derivePi builds the leaf-level π projection for a block already committed
// to leafDigest. The four accumulator limbs are a BLAKE3-derived expansion
// of the leaf digest: a constant-size, deterministic projection that is
// bound to the block's full content (since leafDigest already is) without
// depending on the excluded field-arithmetic STARK backend.
func derivePi(leafDigest [32]byte, ctrlIn, ctrlOut uint16, flags uint32) Pi {
	limbs := expandLimbs("sezkp/fold/pi-acc", leafDigest[:])
	return Pi{
		CtrlIn:  uint32(ctrlIn),
		CtrlOut: uint32(ctrlOut),
		Flags:   flags,
		Acc:     limbs,
	}
}

// expandLimbs derives 4 uint64 limbs from seed under a domain separator,
// using BLAKE3's XOF to produce a 32-byte expansion.
func expandLimbs(domainSep string, seed []byte) [4]uint64 {
	h := blake3.New()
	h.Write([]byte(domainSep))
	h.Write(seed)
	out := h.Sum(nil)
	var limbs [4]uint64
	for i := 0; i < 4; i++ {
		limbs[i] = binary.LittleEndian.Uint64(out[i*8 : i*8+8])
	}
	return limbs
}

// commitPi computes the 32-byte opaque π-commit bound into the transcript
// in place of the raw Pi value.
func commitPi(pi Pi) [32]byte {
	h := blake3.New()
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], pi.CtrlIn)
	h.Write(buf[:4])
	binary.LittleEndian.PutUint32(buf[:4], pi.CtrlOut)
	h.Write(buf[:4])
	binary.LittleEndian.PutUint32(buf[:4], pi.Flags)
	h.Write(buf[:4])
	for _, limb := range pi.Acc {
		binary.LittleEndian.PutUint64(buf[:8], limb)
		h.Write(buf[:8])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// deriveCombineAux computes the public, independently-derivable auxiliary
// input to the ARE combiner from the two child commitments, so both prover
// and verifier compute identical aux without extra proof material.
func deriveCombineAux(left, right Commitment) CombineAux {
	h := blake3.New()
	h.Write([]byte("sezkp/fold/are-aux"))
	h.Write(left.Root[:])
	h.Write(right.Root[:])
	out := h.Sum(nil)
	var aux CombineAux
	for i := 0; i < 4; i++ {
		aux.Gamma[i] = binary.LittleEndian.Uint64(out[i*8 : i*8+8])
	}
	aux.FlagMask = binary.LittleEndian.Uint32(out[0:4])
	return aux
}

// combine is the ARE combiner: a constant-degree, component-wise
// combination of two children's π projections into the parent's, per the
// π-commit design note's resolution (wrapping uint64 addition rather than
// STARK field arithmetic).
func combine(left, right Pi, aux CombineAux) Pi {
	var parent Pi
	parent.CtrlIn = left.CtrlIn
	parent.CtrlOut = right.CtrlOut
	parent.Flags = (left.Flags | right.Flags) ^ aux.FlagMask
	for i := 0; i < 4; i++ {
		parent.Acc[i] = left.Acc[i] + right.Acc[i] + aux.Gamma[i]
	}
	return parent
}
