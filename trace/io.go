package trace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

// Format identifies one of the trace-file encodings auto-detected by
// extension, mirroring block.Format's JSON/CBOR pair (trace files have no
// line-delimited variant — the original's io.rs only ever supports the two).
type Format int

const (
	FormatJSON Format = iota
	FormatCBOR
)

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".cbor":
		return FormatCBOR, nil
	default:
		return 0, sezkperr.New(sezkperr.KindDecodeFormat, path, "unrecognized trace file extension (expected .json or .cbor)")
	}
}

// ReadAuto reads a trace File from path, dispatching on its extension.
func ReadAuto(path string) (File, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return File{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, sezkperr.Wrap(sezkperr.KindIO, path, "read trace file", err)
	}
	var f File
	switch format {
	case FormatCBOR:
		if err := cbor.Unmarshal(data, &f); err != nil {
			return File{}, sezkperr.Wrap(sezkperr.KindDecodeFormat, path, "decode cbor trace", err)
		}
	default:
		if err := json.Unmarshal(data, &f); err != nil {
			return File{}, sezkperr.Wrap(sezkperr.KindDecodeFormat, path, "decode json trace", err)
		}
	}
	return f, nil
}

// WriteAuto writes f to path, dispatching on extension and defaulting to
// JSON for an unrecognized extension (write-side leniency, matching
// block.WriteAuto and the original's write_trace_auto).
func WriteAuto(path string, f File) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sezkperr.Wrap(sezkperr.KindIO, path, "create parent directory", err)
		}
	}
	format, err := DetectFormat(path)
	if err != nil {
		format = FormatJSON
	}
	var data []byte
	switch format {
	case FormatCBOR:
		data, err = cbor.Marshal(f)
		if err != nil {
			return sezkperr.Wrap(sezkperr.KindInternal, path, "encode cbor trace", err)
		}
	default:
		data, err = json.MarshalIndent(f, "", "  ")
		if err != nil {
			return sezkperr.Wrap(sezkperr.KindInternal, path, "encode json trace", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return sezkperr.Wrap(sezkperr.KindIO, path, "write trace file", err)
	}
	return nil
}
