package scheduler

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
	"github.com/logannye/streaming-zero-knowledge-proofs/fold"
	"github.com/logannye/streaming-zero-knowledge-proofs/logger"
)

// Driver traverses the implicit balanced binary reduction tree over a block
// stream using the same pending-ladder "carry" algorithm as
// merkle.Committer, but over fold.Proof nodes instead of bare digests. Its
// top commitment after Finish is therefore guaranteed, by construction, to
// equal merkle.Root over the same blocks.
type Driver struct {
	opts Options

	pending    []*node
	levelCount []uint32 // nodes produced so far at each level, for indexing/labels

	sidecar *SidecarWriter
	bundle  FoldProofBundle

	foldsProduced uint32
	leaf          fold.Leaf
	wrap          fold.Wrap
}

// NewDriver starts a fresh scheduler run. When opts.Mode is MinRAM, opts
// must name a SidecarPath; NewDriver creates it.
func NewDriver(opts Options) (*Driver, error) {
	log := logger.Logger()
	log.Info().Str("mode", opts.Mode.String()).Uint32("wrap_cadence", opts.WrapCadence).Msg("starting fold scheduler run")

	d := &Driver{
		opts: opts,
		leaf: fold.Blake3Leaf{},
		wrap: fold.Blake3Wrap{},
	}
	if opts.Mode == MinRAM {
		sc, err := CreateSidecar(opts.SidecarPath)
		if err != nil {
			return nil, err
		}
		d.sidecar = sc
	}
	if opts.ExpectedBlocks > 0 {
		depth := depthBound(opts.ExpectedBlocks) + 1
		d.pending = make([]*node, depth)
		d.levelCount = make([]uint32, depth)
	}
	return d, nil
}

// Push folds in the next block, in strictly increasing block-id order.
func (d *Driver) Push(b block.Summary) error {
	lp, err := d.leaf.ProveLeaf(b)
	if err != nil {
		return err
	}
	n, err := d.storeLeaf(lp)
	if err != nil {
		return err
	}
	return d.carry(n)
}

// PushBatch proves a run of blocks' leaves concurrently (bounded by
// opts.Parallelism) and then folds each into the ladder sequentially, in
// order — mirroring the teacher's fan-out-then-join pattern (see
// constraint/marshal.go) for the one step of this pipeline, leaf proving,
// whose inputs are independent of each other.
func (d *Driver) PushBatch(blocks []block.Summary) error {
	if len(blocks) == 0 {
		return nil
	}
	par := d.opts.Parallelism
	if par <= 1 {
		for _, b := range blocks {
			if err := d.Push(b); err != nil {
				return err
			}
		}
		return nil
	}

	leaves := make([]*fold.LeafProof, len(blocks))
	var g errgroup.Group
	g.SetLimit(par)
	for i := range blocks {
		i := i
		g.Go(func() error {
			lp, err := d.leaf.ProveLeaf(blocks[i])
			if err != nil {
				return err
			}
			leaves[i] = lp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, lp := range leaves {
		n, err := d.storeLeaf(lp)
		if err != nil {
			return err
		}
		if err := d.carry(n); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) storeLeaf(lp *fold.LeafProof) (*node, error) {
	idx := d.bumpLevelCount(0)
	n := &node{level: 0, index: idx, sidecarIdx: -1}
	if d.opts.Mode == MinRAM {
		enc, err := fold.EncodeLeaf(lp)
		if err != nil {
			return nil, err
		}
		sidx, err := d.sidecar.Append(enc)
		if err != nil {
			return nil, err
		}
		n.sidecarIdx = int32(sidx)
		n.proof = endpointProof{kind: fold.NodeLeaf, ep: lp.Endpoint()}
		d.bundle.Leaves = append(d.bundle.Leaves, LeafRecord{C: lp.C, SidecarIdx: int32(sidx)})
	} else {
		n.proof = lp
		d.bundle.Leaves = append(d.bundle.Leaves, LeafRecord{C: lp.C, Body: lp, SidecarIdx: -1})
	}
	return n, nil
}

func (d *Driver) bumpLevelCount(level uint32) uint32 {
	for uint32(len(d.levelCount)) <= level {
		d.levelCount = append(d.levelCount, 0)
	}
	idx := d.levelCount[level]
	d.levelCount[level]++
	return idx
}

// carry runs the binary-counter merge starting from freshly produced node n
// at level 0, combining with any already-pending node at the same level,
// exactly as merkle.Committer.Push does for raw digests.
func (d *Driver) carry(n *node) error {
	cur := n
	level := uint32(0)
	for int(level) < len(d.pending) && d.pending[level] != nil {
		left := d.pending[level]
		right := cur
		parentLevel := level + 1
		parentIdx := d.bumpLevelCount(parentLevel)
		label := fmt.Sprintf("L%d:%d", parentLevel, parentIdx)

		fp, err := fold.ProveFoldLabeled(left.proof, right.proof, label)
		if err != nil {
			return err
		}
		parent := &node{level: parentLevel, index: parentIdx, sidecarIdx: -1}
		if d.opts.Mode == MinRAM {
			enc, err := fold.EncodeFold(fp)
			if err != nil {
				return err
			}
			sidx, err := d.sidecar.Append(enc)
			if err != nil {
				return err
			}
			parent.sidecarIdx = int32(sidx)
			parent.proof = endpointProof{kind: fold.NodeFold, ep: fp.Endpoint()}
			d.bundle.Folds = append(d.bundle.Folds, FoldRecord{C: fp.C, SidecarIdx: int32(sidx)})
		} else {
			parent.proof = fp
			d.bundle.Folds = append(d.bundle.Folds, FoldRecord{C: fp.C, Body: fp, SidecarIdx: -1})
		}

		d.foldsProduced++
		if d.opts.WrapCadence > 0 && d.foldsProduced%d.opts.WrapCadence == 0 {
			wp, err := d.wrap.ProveWrap(parent.proof)
			if err != nil {
				return err
			}
			d.bundle.Wraps = append(d.bundle.Wraps, WrapRecord{
				AfterFold: len(d.bundle.Folds) - 1,
				Body:      wp,
			})
		}

		d.pending[level] = nil
		cur = parent
		level++
	}
	if int(level) == len(d.pending) {
		d.pending = append(d.pending, nil)
	}
	d.pending[level] = cur
	return nil
}

// Finish bags the remaining pending ladder into the run's top node and
// returns the completed bundle. In MinRAM mode it first closes the sidecar
// writer; the folds Finish produces itself are kept inline in the bundle.
func (d *Driver) Finish() (*FoldProofBundle, error) {
	if d.sidecar != nil {
		if err := d.sidecar.Close(); err != nil {
			return nil, err
		}
	}
	if len(d.pending) == 0 {
		return &d.bundle, nil
	}

	var acc *node
	for _, p := range d.pending {
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
		parentIdx := d.bumpLevelCount(parentLevel)
		label := fmt.Sprintf("L%d:%d", parentLevel, parentIdx)

		fp, err := fold.ProveFoldLabeled(p.proof, acc.proof, label)
		if err != nil {
			return nil, err
		}
		parent := &node{level: parentLevel, index: parentIdx, proof: fp, sidecarIdx: -1}
		d.bundle.Folds = append(d.bundle.Folds, FoldRecord{C: fp.C, Body: fp, SidecarIdx: -1})
		d.foldsProduced++
		if d.opts.WrapCadence > 0 && d.foldsProduced%d.opts.WrapCadence == 0 {
			wp, err := d.wrap.ProveWrap(fp)
			if err != nil {
				return nil, err
			}
			d.bundle.Wraps = append(d.bundle.Wraps, WrapRecord{
				AfterFold: len(d.bundle.Folds) - 1,
				Body:      wp,
			})
		}
		acc = parent
	}

	d.bundle.NBlocks = uint32(len(d.bundle.Leaves))
	if d.bundle.NBlocks > 0 {
		d.bundle.TreeSpan = block.NewInterval(1, d.bundle.NBlocks)
	}

	logger.Logger().Info().
		Uint32("n_blocks", d.bundle.NBlocks).
		Int("n_folds", len(d.bundle.Folds)).
		Int("n_wraps", len(d.bundle.Wraps)).
		Msg("fold scheduler run complete")
	return &d.bundle, nil
}
