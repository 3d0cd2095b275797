// Package trace defines the VM-agnostic synthetic trace envelope (distinct
// from the block package's per-block Summary), a toy fixed-seed generator,
// and the partitioner that chunks a trace into block.Summary windows.
package trace

import "encoding/json"

// TapeOp is one tape's per-step operation: the head movement, then an
// optional write at the post-move head position.
type TapeOp struct {
	Write *uint16 `json:"write,omitempty" cbor:"write,omitempty"`
	Mv    int8    `json:"mv" cbor:"mv"`
}

// Step is a single tick across all tau tapes.
type Step struct {
	InputMv int8     `json:"input_mv" cbor:"input_mv"`
	Tapes   []TapeOp `json:"tapes" cbor:"tapes"`
}

// File is the trace envelope: a version tag, tape arity, step sequence, and
// optional opaque metadata.
type File struct {
	Version uint16          `json:"version" cbor:"version"`
	Tau     uint8           `json:"tau" cbor:"tau"`
	Steps   []Step          `json:"steps" cbor:"steps"`
	Meta    json.RawMessage `json:"meta,omitempty" cbor:"meta,omitempty"`
}

// Len returns the number of steps in the trace.
func (f *File) Len() int { return len(f.Steps) }

// IsEmpty reports whether the trace has no steps.
func (f *File) IsEmpty() bool { return len(f.Steps) == 0 }
