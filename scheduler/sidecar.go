package scheduler

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

// SidecarWriter is an append-only proof-body stream: each record is framed
// with a 4-byte little-endian length prefix, referenced by callers using
// its 0-based file-order index. It is the minram mode's home for interior
// proof bodies elided from the main bundle.
type SidecarWriter struct {
	f     *os.File
	count uint32
}

// CreateSidecar creates (truncating) the sidecar file at path.
func CreateSidecar(path string) (*SidecarWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, sezkperr.Wrap(sezkperr.KindIO, path, "create sidecar file", err)
	}
	return &SidecarWriter{f: f}, nil
}

// Append writes record as the next sidecar entry and returns its index.
func (w *SidecarWriter) Append(record []byte) (uint32, error) {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(record)))
	if _, err := w.f.Write(lenBuf[:]); err != nil {
		return 0, sezkperr.Wrap(sezkperr.KindIO, w.f.Name(), "write sidecar record length", err)
	}
	if _, err := w.f.Write(record); err != nil {
		return 0, sezkperr.Wrap(sezkperr.KindIO, w.f.Name(), "write sidecar record", err)
	}
	idx := w.count
	w.count++
	return idx, nil
}

// Close flushes and closes the sidecar file.
func (w *SidecarWriter) Close() error {
	if err := w.f.Close(); err != nil {
		return sezkperr.Wrap(sezkperr.KindIO, w.f.Name(), "close sidecar file", err)
	}
	return nil
}

// SidecarReader is a positioned reader over a sidecar file, indexing
// records by 0-based file order on first open (a single linear scan to
// build the offset table, then O(1) lookups by index).
type SidecarReader struct {
	path    string
	data    []byte
	offsets []int // byte offset of each record's payload
	lengths []int
}

// OpenSidecar opens the sidecar file at path for positioned reads,
// truncation of the final record a failure (never silently tolerated).
func OpenSidecar(path string) (*SidecarReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sezkperr.Wrap(sezkperr.KindSidecarMissing, path, "open sidecar file", err)
	}
	r := &SidecarReader{path: path, data: data}
	pos := 0
	for pos < len(data) {
		if pos+4 > len(data) {
			return nil, sezkperr.New(sezkperr.KindSidecarMissing, path, "truncated sidecar record length prefix")
		}
		n := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+n > len(data) {
			return nil, sezkperr.New(sezkperr.KindSidecarMissing, path, "truncated sidecar record body")
		}
		r.offsets = append(r.offsets, pos)
		r.lengths = append(r.lengths, n)
		pos += n
	}
	return r, nil
}

// Len returns the number of records in the sidecar.
func (r *SidecarReader) Len() int { return len(r.offsets) }

// Record returns the idx'th record's bytes, or a SidecarMissing error if
// idx is out of range.
func (r *SidecarReader) Record(idx uint32) ([]byte, error) {
	i := int(idx)
	if i < 0 || i >= len(r.offsets) {
		return nil, sezkperr.New(sezkperr.KindSidecarMissing, itoaU32(idx), "sidecar record index out of range")
	}
	return r.data[r.offsets[i] : r.offsets[i]+r.lengths[i]], nil
}

var _ io.Closer = (*SidecarWriter)(nil)

func itoaU32(u uint32) string {
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
