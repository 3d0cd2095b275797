package scheduler

import (
	"fmt"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/fold"
	"github.com/logannye/streaming-zero-knowledge-proofs/merkle"
	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

// VerifyOptions configures VerifyBundle's resolution of sidecar-backed
// records and its endpoint cache.
type VerifyOptions struct {
	SidecarPath       string
	EndpointCacheSize int
}

// verifier replays the same pending-ladder traversal the Driver used to
// build the bundle, resolving each record (inline or sidecar-backed),
// verifying it, and retaining only its Endpoint going forward — so MinRAM
// bundles never need their full proof bodies all resident at once.
type verifier struct {
	bundle *FoldProofBundle
	side   *SidecarReader
	cache  *EndpointCache

	leafPos, foldPos int
	pending          []*node
	levelCount       []uint32
	foldSpans        []SpanKey // foldSpans[i] is the (level, index) of bundle.Folds[i]
}

// VerifyBundle checks every leaf and fold proof in bundle against blocks
// (supplied via it, in the same order the bundle was built from), checks
// every wrap proof, and finally asserts the bundle's top commitment equals
// want's root. vo.SidecarPath is required whenever the bundle holds
// sidecar-backed records (i.e. it was built in MinRAM mode).
func VerifyBundle(it block.Iterator, bundle *FoldProofBundle, want merkle.CommitManifest, vo VerifyOptions) error {
	if want.Version != merkle.ManifestVersion {
		return sezkperr.New(sezkperr.KindSchemaVersion, "", "unrecognized manifest version")
	}

	v := &verifier{bundle: bundle, cache: NewEndpointCache(vo.EndpointCacheSize)}
	if needsSidecar(bundle) {
		if vo.SidecarPath == "" {
			return sezkperr.New(sezkperr.KindSidecarMissing, "", "bundle has sidecar-backed records but no sidecar path was given")
		}
		sr, err := OpenSidecar(vo.SidecarPath)
		if err != nil {
			return err
		}
		v.side = sr
	}

	var n uint32
	for {
		b, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := v.pushBlock(b); err != nil {
			return err
		}
		n++
	}
	if n != bundle.NBlocks {
		return sezkperr.New(sezkperr.KindLeafCountMismatch, itoaU32(n), "block count disagrees with bundle")
	}

	top, err := v.finish()
	if err != nil {
		return err
	}
	if top.C.Root != want.Root || top.C.Len != want.NLeaves {
		return sezkperr.New(sezkperr.KindRootMismatch, "", "bundle top commitment disagrees with manifest root")
	}

	if err := v.verifyWraps(); err != nil {
		return err
	}
	return nil
}

func needsSidecar(b *FoldProofBundle) bool {
	for _, r := range b.Leaves {
		if r.Body == nil {
			return true
		}
	}
	for _, r := range b.Folds {
		if r.Body == nil {
			return true
		}
	}
	return false
}

func (v *verifier) resolveLeaf(idx int) (*fold.LeafProof, error) {
	rec := v.bundle.Leaves[idx]
	if rec.Body != nil {
		return rec.Body, nil
	}
	raw, err := v.side.Record(uint32(rec.SidecarIdx))
	if err != nil {
		return nil, err
	}
	return fold.DecodeLeaf(raw)
}

func (v *verifier) resolveFold(idx int) (*fold.FoldProof, error) {
	rec := v.bundle.Folds[idx]
	if rec.Body != nil {
		return rec.Body, nil
	}
	raw, err := v.side.Record(uint32(rec.SidecarIdx))
	if err != nil {
		return nil, err
	}
	return fold.DecodeFold(raw)
}

func (v *verifier) bumpLevelCount(level uint32) uint32 {
	for uint32(len(v.levelCount)) <= level {
		v.levelCount = append(v.levelCount, 0)
	}
	idx := v.levelCount[level]
	v.levelCount[level]++
	return idx
}

func (v *verifier) pushBlock(b block.Summary) error {
	lp, err := v.resolveLeaf(v.leafPos)
	if err != nil {
		return err
	}
	v.leafPos++
	if err := (fold.Blake3Leaf{}).VerifyLeaf(b, lp); err != nil {
		return err
	}
	idx := v.bumpLevelCount(0)
	key := SpanKey{Level: 0, Index: idx}
	ep := lp.Endpoint()
	v.cache.Put(key, ep)
	n := &node{level: 0, index: idx, proof: endpointProof{kind: fold.NodeLeaf, ep: ep}}
	return v.carry(n)
}

func (v *verifier) carry(n *node) error {
	cur := n
	level := uint32(0)
	for int(level) < len(v.pending) && v.pending[level] != nil {
		left := v.pending[level]
		right := cur
		parentLevel := level + 1
		parentIdx := v.bumpLevelCount(parentLevel)
		label := fmt.Sprintf("L%d:%d", parentLevel, parentIdx)

		fp, err := v.resolveFold(v.foldPos)
		if err != nil {
			return err
		}
		v.foldPos++
		if err := fold.VerifyFoldLabeled(left.proof, right.proof, fp, label); err != nil {
			return err
		}

		ep := fp.Endpoint()
		key := SpanKey{Level: parentLevel, Index: parentIdx}
		v.cache.Put(key, ep)
		v.foldSpans = append(v.foldSpans, key)
		parent := &node{level: parentLevel, index: parentIdx, proof: endpointProof{kind: fold.NodeFold, ep: ep}}

		v.pending[level] = nil
		cur = parent
		level++
	}
	if int(level) == len(v.pending) {
		v.pending = append(v.pending, nil)
	}
	v.pending[level] = cur
	return nil
}

// finish bags the remaining pending ladder, consuming the same trailing
// fold records the Driver's Finish produced.
func (v *verifier) finish() (fold.Endpoint, error) {
	var acc *node
	for _, p := range v.pending {
		if p == nil {
			continue
		}
		if acc == nil {
			acc = p
			continue
		}
		parentLevel := acc.level
		if p.level > parentLevel {
			parentLevel = p.level
		}
		parentLevel++
		parentIdx := v.bumpLevelCount(parentLevel)
		label := fmt.Sprintf("L%d:%d", parentLevel, parentIdx)

		fp, err := v.resolveFold(v.foldPos)
		if err != nil {
			return fold.Endpoint{}, err
		}
		v.foldPos++
		if err := fold.VerifyFoldLabeled(p.proof, acc.proof, fp, label); err != nil {
			return fold.Endpoint{}, err
		}
		ep := fp.Endpoint()
		key := SpanKey{Level: parentLevel, Index: parentIdx}
		v.cache.Put(key, ep)
		v.foldSpans = append(v.foldSpans, key)
		acc = &node{level: parentLevel, index: parentIdx, proof: endpointProof{kind: fold.NodeFold, ep: ep}}
	}
	if v.foldPos != len(v.bundle.Folds) {
		return fold.Endpoint{}, sezkperr.New(sezkperr.KindManifestMismatch, "", "bundle carries unconsumed fold records")
	}
	if acc == nil {
		return fold.Endpoint{}, sezkperr.New(sezkperr.KindManifestMismatch, "", "empty bundle has no top node")
	}
	return acc.proof.Endpoint(), nil
}

// verifyWraps checks each wrap proof against the node it names. A wrap only
// binds its target's Endpoint (commitment and π-commit), so a cache hit
// lets it skip the sidecar entirely; on a miss it falls back to decoding
// the fold record and caches the result for any later wrap on the same span.
func (v *verifier) verifyWraps() error {
	for _, wr := range v.bundle.Wraps {
		if wr.AfterFold < 0 || wr.AfterFold >= len(v.bundle.Folds) {
			return sezkperr.New(sezkperr.KindManifestMismatch, "", "wrap references an out-of-range fold index")
		}
		key := v.foldSpans[wr.AfterFold]
		ep, ok := v.cache.Get(key)
		if !ok {
			fp, err := v.resolveFold(wr.AfterFold)
			if err != nil {
				return err
			}
			ep = fp.Endpoint()
			v.cache.Put(key, ep)
		}
		target := endpointProof{kind: fold.NodeFold, ep: ep}
		if err := (fold.Blake3Wrap{}).VerifyWrap(target, wr.Body); err != nil {
			return err
		}
	}
	return nil
}
