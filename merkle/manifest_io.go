package merkle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

// ReadManifestAuto loads a CommitManifest from path, auto-detecting CBOR vs
// JSON by extension. Any other extension is read as JSON (manifests are
// small; unlike block streams, there is no third line-delimited encoding).
func ReadManifestAuto(path string) (CommitManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CommitManifest{}, sezkperr.Wrap(sezkperr.KindIO, path, "read manifest file", err)
	}
	var m CommitManifest
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		if err := cbor.Unmarshal(data, &m); err != nil {
			return CommitManifest{}, sezkperr.Wrap(sezkperr.KindDecodeFormat, path, "decode cbor manifest", err)
		}
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return CommitManifest{}, sezkperr.Wrap(sezkperr.KindDecodeFormat, path, "decode json manifest", err)
	}
	return m, nil
}

// WriteManifestAuto writes m to path, auto-detecting CBOR vs JSON by
// extension (defaulting to JSON for any other extension).
func WriteManifestAuto(path string, m CommitManifest) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sezkperr.Wrap(sezkperr.KindIO, path, "create parent directory", err)
		}
	}
	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		data, err = cbor.Marshal(m)
	} else {
		data, err = json.Marshal(m)
	}
	if err != nil {
		return sezkperr.Wrap(sezkperr.KindInternal, path, "encode manifest", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return sezkperr.Wrap(sezkperr.KindIO, path, "write manifest file", err)
	}
	return nil
}
