// Package transcript implements a domain-separated Fiat-Shamir transcript
// over BLAKE3: a MAC/challenge stream that the fold gadgets use to bind
// their inputs and derive deterministic outputs. The transcript is never
// reused across gadgets; callers clone-with-prefix to start a fresh,
// domain-separated view.
package transcript

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// Prefix seeds every transcript before any domain separator is absorbed.
const Prefix = "sezkp.transcript.v0"

// Transcript is the absorb/mac/challenge contract every gadget binds
// through. Implementations are not required to be safe for concurrent use.
type Transcript interface {
	// Absorb appends a length-tagged, labeled segment to the transcript.
	Absorb(label string, payload []byte)
	// AbsorbU64 absorbs a little-endian uint64 under label.
	AbsorbU64(label string, v uint64)
	// AbsorbI64 absorbs a little-endian int64 under label.
	AbsorbI64(label string, v int64)
	// Mac finalizes a non-forwarding snapshot: a 32-byte digest of the
	// transcript state as absorbed so far, without altering it for future
	// absorbs.
	Mac() [32]byte
	// Challenge deterministically extracts n pseudorandom bytes under
	// label, then advances the transcript state so the same challenge
	// label never repeats the same output.
	Challenge(label string, n int) []byte
}

// Blake3Transcript is the sole Transcript implementation: a BLAKE3 hasher
// seeded with Prefix plus a domain separator, fed tagged absorb/challenge
// segments.
type Blake3Transcript struct {
	h *blake3.Hasher
}

// New builds a Blake3Transcript seeded with Prefix and domainSep.
func New(domainSep string) *Blake3Transcript {
	h := blake3.New()
	h.Write([]byte(Prefix))
	writeLenPrefixed(h, []byte(domainSep))
	return &Blake3Transcript{h: h}
}

// CloneWithPrefix derives a fresh transcript from t's current state plus an
// additional domain separator, without mutating t. Used to fan a parent
// transcript context out into independent per-gadget sub-transcripts.
func (t *Blake3Transcript) CloneWithPrefix(domainSep string) *Blake3Transcript {
	clone := t.h.Clone()
	writeLenPrefixed(clone, []byte(domainSep))
	return &Blake3Transcript{h: clone}
}

func writeLenPrefixed(h *blake3.Hasher, b []byte) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
	h.Write(lenBuf[:])
	h.Write(b)
}

// Absorb appends a "absorb" tag, the label (length-prefixed), and the
// length-prefixed payload.
func (t *Blake3Transcript) Absorb(label string, payload []byte) {
	t.h.Write([]byte("absorb"))
	writeLenPrefixed(t.h, []byte(label))
	writeLenPrefixed(t.h, payload)
}

// AbsorbU64 absorbs v as 8 little-endian bytes under label.
func (t *Blake3Transcript) AbsorbU64(label string, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	t.Absorb(label, buf[:])
}

// AbsorbI64 absorbs v as 8 little-endian bytes under label.
func (t *Blake3Transcript) AbsorbI64(label string, v int64) {
	t.AbsorbU64(label, uint64(v))
}

// Mac finalizes a snapshot of the current state as a 32-byte digest,
// without touching t's live state.
func (t *Blake3Transcript) Mac() [32]byte {
	var out [32]byte
	sum := t.h.Clone().Sum(nil)
	copy(out[:], sum)
	return out
}

// Challenge clones the current state, absorbs a "challenge" tag plus the
// length-prefixed label, and extracts n bytes via BLAKE3's XOF. It then
// advances the real transcript state with an "after_challenge" tag plus the
// label, so issuing the same challenge label twice never yields the same
// output and subsequent absorbs depend on every challenge issued so far.
func (t *Blake3Transcript) Challenge(label string, n int) []byte {
	snap := t.h.Clone()
	snap.Write([]byte("challenge"))
	writeLenPrefixed(snap, []byte(label))

	out := make([]byte, n)
	d := snap.Digest()
	_, _ = d.Read(out)

	t.h.Write([]byte("after_challenge"))
	writeLenPrefixed(t.h, []byte(label))

	return out
}
