package merkle

import (
	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/logger"
	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

// Committer folds a sequence of leaf digests into a root using O(log T)
// memory: a "pending right siblings" ladder indexed by level. Pushing a
// leaf carries upward exactly like a binary counter increment, combining
// with any already-pending node at the same level; Root bags the
// remaining pending nodes bottom-up using the same odd-promotion order the
// batch Root function uses, so the two are guaranteed to agree.
type Committer struct {
	pending []*[32]byte
	n       uint32
}

// NewCommitter returns an empty streaming committer.
func NewCommitter() *Committer {
	return &Committer{}
}

// Push folds in the next leaf digest, in strictly increasing block-id order.
func (c *Committer) Push(leaf [32]byte) {
	cur := leaf
	level := 0
	for level < len(c.pending) && c.pending[level] != nil {
		cur = Parent(*c.pending[level], cur)
		c.pending[level] = nil
		level++
	}
	if level == len(c.pending) {
		c.pending = append(c.pending, nil)
	}
	v := cur
	c.pending[level] = &v
	c.n++
}

// Root bags the pending ladder into the final root. Calling Root does not
// consume the committer; it may be called again after further Pushes.
func (c *Committer) Root() [32]byte {
	if c.n == 0 {
		return [32]byte{}
	}
	var acc *[32]byte
	for _, p := range c.pending {
		if p == nil {
			continue
		}
		if acc == nil {
			v := *p
			acc = &v
			continue
		}
		v := Parent(*p, *acc)
		acc = &v
	}
	return *acc
}

// NLeaves returns the number of leaves pushed so far.
func (c *Committer) NLeaves() uint32 { return c.n }

// CommitStream computes the manifest for a block.Iterator without
// materializing the block sequence, using O(log T) memory.
func CommitStream(it block.Iterator) (CommitManifest, error) {
	c := NewCommitter()
	for {
		s, ok, err := it.Next()
		if err != nil {
			return CommitManifest{}, err
		}
		if !ok {
			break
		}
		leaf := LeafHash(&s)
		c.Push(leaf)
	}
	m := CommitManifest{
		Version: ManifestVersion,
		Root:    c.Root(),
		NLeaves: c.NLeaves(),
	}
	logger.Logger().Info().Uint32("n_leaves", m.NLeaves).Msg("committed block stream")
	return m, nil
}

// VerifyStream recomputes the manifest for it and asserts it matches want,
// using the same O(log T)-memory streaming algorithm as CommitStream.
func VerifyStream(it block.Iterator, want CommitManifest) error {
	if want.Version != ManifestVersion {
		return sezkperr.New(sezkperr.KindSchemaVersion, itoa(want.Version), "unrecognized manifest version")
	}
	got, err := CommitStream(it)
	if err != nil {
		return err
	}
	if got.NLeaves != want.NLeaves {
		return sezkperr.New(sezkperr.KindLeafCountMismatch, itoa(got.NLeaves), "leaf count disagrees with manifest")
	}
	if got.Root != want.Root {
		err := sezkperr.New(sezkperr.KindManifestMismatch, "", "recomputed root disagrees with manifest")
		logger.Logger().Err(err).Msg("stream verify failed")
		return err
	}
	return nil
}
