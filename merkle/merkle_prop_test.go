package merkle

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/logannye/streaming-zero-knowledge-proofs/block"
)

func makeChain(n int) []block.Summary {
	blocks := make([]block.Summary, n)
	for i := 0; i < n; i++ {
		blocks[i] = mkBlock(uint32(i + 1))
	}
	return blocks
}

func TestPropCommitValidateRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("validate(blocks, commit(blocks)) == OK for any non-empty block stream", prop.ForAll(
		func(n int) bool {
			blocks := makeChain(n)
			m := CommitBlocks(blocks)
			return ValidateBlocks(blocks, m) == nil && m.NLeaves == uint32(n)
		},
		gen.IntRange(1, 64),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPropPermutationChangesRoot(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("reversing a block stream of length >= 2 changes commit().root", prop.ForAll(
		func(n int) bool {
			blocks := makeChain(n)
			original := CommitBlocks(blocks)

			reversed := make([]block.Summary, n)
			for i, b := range blocks {
				reversed[n-1-i] = b
			}
			permuted := CommitBlocks(reversed)
			return permuted.Root != original.Root
		},
		gen.IntRange(2, 64),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPropMutationDetected(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("mutating any single block invalidates the manifest", prop.ForAll(
		func(n, pick int) bool {
			blocks := makeChain(n)
			m := CommitBlocks(blocks)
			idx := pick % n
			blocks[idx].CtrlOut++
			return ValidateBlocks(blocks, m) != nil
		},
		gen.IntRange(1, 40),
		gen.IntRange(0, 999),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPropCommitIsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("commit(blocks) is byte-identical across repeated runs", prop.ForAll(
		func(n int) bool {
			blocks := makeChain(n)
			a := CommitBlocks(blocks)
			b := CommitBlocks(blocks)
			return a == b
		},
		gen.IntRange(0, 64),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
