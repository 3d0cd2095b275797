package block

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

// Format identifies one of the block-file encodings auto-detected by
// extension.
type Format int

const (
	// FormatCBOR is the binary, self-describing container encoding.
	FormatCBOR Format = iota
	// FormatJSON is a single materialized JSON array.
	FormatJSON
	// FormatJSONL is line-delimited text, one Summary per line.
	FormatJSONL
)

// DetectFormat maps a file extension to a Format. Unknown or missing
// extensions are a DecodeFormat error on read; see ReadAuto.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbor":
		return FormatCBOR, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	default:
		return 0, sezkperr.New(sezkperr.KindDecodeFormat, path, "unrecognized block file extension")
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return sezkperr.Wrap(sezkperr.KindIO, path, "create parent directory", err)
	}
	return nil
}

// ReadAuto materializes the full block sequence from path, dispatching on
// its extension. For .jsonl/.ndjson inputs, prefer StreamAuto to avoid
// holding the whole sequence in memory.
func ReadAuto(path string) ([]Summary, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sezkperr.Wrap(sezkperr.KindIO, path, "read blocks file", err)
	}
	switch format {
	case FormatCBOR:
		var blocks []Summary
		if err := cbor.Unmarshal(data, &blocks); err != nil {
			return nil, sezkperr.Wrap(sezkperr.KindDecodeFormat, path, "decode cbor blocks", err)
		}
		return blocks, nil
	case FormatJSON:
		var blocks []Summary
		if err := json.Unmarshal(data, &blocks); err != nil {
			return nil, sezkperr.Wrap(sezkperr.KindDecodeFormat, path, "decode json blocks", err)
		}
		return blocks, nil
	case FormatJSONL:
		return readJSONL(path)
	default:
		return nil, sezkperr.New(sezkperr.KindInternal, path, "unhandled block format")
	}
}

// WriteAuto writes blocks to path, dispatching on its extension. Unknown
// extensions default to JSON, matching the original implementation's
// write-side leniency (only reads are strict).
func WriteAuto(path string, blocks []Summary) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	format, err := DetectFormat(path)
	if err != nil {
		format = FormatJSON
	}
	switch format {
	case FormatCBOR:
		data, err := cbor.Marshal(blocks)
		if err != nil {
			return sezkperr.Wrap(sezkperr.KindInternal, path, "encode cbor blocks", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return sezkperr.Wrap(sezkperr.KindIO, path, "write blocks file", err)
		}
		return nil
	case FormatJSONL:
		return writeJSONL(path, blocks)
	default:
		data, err := json.Marshal(blocks)
		if err != nil {
			return sezkperr.Wrap(sezkperr.KindInternal, path, "encode json blocks", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return sezkperr.Wrap(sezkperr.KindIO, path, "write blocks file", err)
		}
		return nil
	}
}

// StreamAuto opens path for true one-block-at-a-time iteration, dispatching
// on extension. For .jsonl/.ndjson this streams line by line; for .json and
// .cbor it materializes the sequence once and adapts it to Iterator (those
// containers cannot be partially decoded without a custom streaming codec).
// The caller owns the returned closer and must call it when done.
func StreamAuto(path string) (Iterator, func() error, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	if format == FormatJSONL {
		return streamJSONL(path)
	}
	blocks, err := ReadAuto(path)
	if err != nil {
		return nil, nil, err
	}
	return NewSliceIterator(blocks), func() error { return nil }, nil
}

func readJSONL(path string) ([]Summary, error) {
	it, closeFn, err := streamJSONL(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return Collect(it)
}

func writeJSONL(path string, blocks []Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return sezkperr.Wrap(sezkperr.KindIO, path, "create jsonl file", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, b := range blocks {
		if err := enc.Encode(b); err != nil {
			return sezkperr.Wrap(sezkperr.KindInternal, path, "encode jsonl line", err)
		}
	}
	if err := w.Flush(); err != nil {
		return sezkperr.Wrap(sezkperr.KindIO, path, "flush jsonl file", err)
	}
	return nil
}

// jsonlIterator streams a .jsonl/.ndjson file one line at a time.
type jsonlIterator struct {
	path    string
	scanner *bufio.Scanner
	lineNo  int
}

func streamJSONL(path string) (Iterator, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, sezkperr.Wrap(sezkperr.KindIO, path, "open jsonl file", err)
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &jsonlIterator{path: path, scanner: scanner}, f.Close, nil
}

func (it *jsonlIterator) Next() (Summary, bool, error) {
	for it.scanner.Scan() {
		it.lineNo++
		line := strings.TrimSpace(it.scanner.Text())
		if line == "" {
			continue
		}
		var s Summary
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return Summary{}, false, sezkperr.Wrap(sezkperr.KindDecodeFormat,
				fmt.Sprintf("%s:%d", it.path, it.lineNo), "decode jsonl line", err)
		}
		return s, true, nil
	}
	if err := it.scanner.Err(); err != nil {
		return Summary{}, false, sezkperr.Wrap(sezkperr.KindIO, it.path, "scan jsonl file", err)
	}
	return Summary{}, false, nil
}

// ExportJSONL re-encodes the blocks file at srcPath (any supported format)
// to a line-delimited text file at dstPath, streaming where the source
// format allows it.
func ExportJSONL(srcPath, dstPath string) error {
	it, closeFn, err := StreamAuto(srcPath)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := ensureParentDir(dstPath); err != nil {
		return err
	}
	f, err := os.Create(dstPath)
	if err != nil {
		return sezkperr.Wrap(sezkperr.KindIO, dstPath, "create jsonl file", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for {
		s, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := enc.Encode(s); err != nil {
			return sezkperr.Wrap(sezkperr.KindInternal, dstPath, "encode jsonl line", err)
		}
	}
	return w.Flush()
}
