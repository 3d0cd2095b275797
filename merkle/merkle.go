// Package merkle implements the canonical left-balanced Merkle commitment
// over block-summary leaves, its streaming (pending-right-siblings)
// commit/verify algorithm, and the CommitManifest file format. The parent
// combiner here is byte-identical to the one the fold package's Fold gadget
// uses to compute its parent commitment — that equality is the linchpin
// tying the folding backend's top commitment to this package's root.
package merkle

import (
	"github.com/zeebo/blake3"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/leafhash"
	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

// ManifestVersion is the current manifest schema version, matching the v1
// leaf-hash layout of leafhash.Hash.
const ManifestVersion uint32 = 1

// CommitManifest is the small, end-of-commit artifact binding a block
// sequence to its Merkle root.
type CommitManifest struct {
	Version uint32   `json:"version" cbor:"version"`
	Root    [32]byte `json:"root" cbor:"root"`
	NLeaves uint32   `json:"n_leaves" cbor:"n_leaves"`
}

// LeafHash returns the canonical leaf digest for s.
func LeafHash(s *block.Summary) [32]byte {
	return leafhash.Hash(s)
}

// Parent combines two child digests with BLAKE3(left||right), unkeyed, with
// no domain-separation tag. fold.combineCommitments calls this function
// directly for its digest step, so the two combiners are one and the same.
func Parent(left, right [32]byte) [32]byte {
	h := blake3.New()
	h.Write(left[:])
	h.Write(right[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Root reduces a sequence of leaf digests to a single root using the
// left-balanced, odd-promotion rule: at each level, an odd node out is
// promoted to the next level unchanged, never duplicated. An empty
// sequence roots to the all-zero digest.
func Root(leaves [][32]byte) [32]byte {
	if len(leaves) == 0 {
		return [32]byte{}
	}
	level := make([][32]byte, len(leaves))
	copy(level, leaves)
	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		i := 0
		for ; i+1 < len(level); i += 2 {
			next = append(next, Parent(level[i], level[i+1]))
		}
		if i < len(level) {
			next = append(next, level[i])
		}
		level = next
	}
	return level[0]
}

// CommitBlocks computes the manifest for a fully materialized block slice.
func CommitBlocks(blocks []block.Summary) CommitManifest {
	leaves := make([][32]byte, len(blocks))
	for i := range blocks {
		leaves[i] = LeafHash(&blocks[i])
	}
	return CommitManifest{
		Version: ManifestVersion,
		Root:    Root(leaves),
		NLeaves: uint32(len(blocks)),
	}
}

// ValidateBlocks recomputes the manifest for blocks and asserts it matches
// want, returning a ManifestMismatch / SchemaVersion / LeafCountMismatch
// error on disagreement.
func ValidateBlocks(blocks []block.Summary, want CommitManifest) error {
	if want.Version != ManifestVersion {
		return sezkperr.New(sezkperr.KindSchemaVersion, itoa(want.Version), "unrecognized manifest version")
	}
	got := CommitBlocks(blocks)
	if got.NLeaves != want.NLeaves {
		return sezkperr.New(sezkperr.KindLeafCountMismatch, itoa(got.NLeaves), "leaf count disagrees with manifest")
	}
	if got.Root != want.Root {
		return sezkperr.New(sezkperr.KindManifestMismatch, "", "recomputed root disagrees with manifest")
	}
	return nil
}

func itoa(u uint32) string {
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
