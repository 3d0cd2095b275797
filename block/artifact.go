package block

import "encoding/json"

// BackendKind identifies which proving backend produced a ProofArtifact.
// Unrecognized values decode as BackendUnknown rather than failing, so an
// older verifier binary can still load an artifact produced by a newer
// producer (it will simply refuse to act on a backend it does not
// implement, rather than erroring out at the decode layer).
type BackendKind int

const (
	BackendFold BackendKind = iota
	BackendStark
	BackendUnknown
)

func (k BackendKind) String() string {
	switch k {
	case BackendFold:
		return "fold"
	case BackendStark:
		return "stark"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the lowercase wire name.
func (k BackendKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON maps any unrecognized string to BackendUnknown instead of
// returning an error, preserving forward compatibility across versions.
func (k *BackendKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "fold":
		*k = BackendFold
	case "stark":
		*k = BackendStark
	default:
		*k = BackendUnknown
	}
	return nil
}

// MarshalCBOR renders the lowercase wire name, matching the JSON encoding so
// both container formats agree on wire representation.
func (k BackendKind) MarshalCBOR() ([]byte, error) {
	return cborMarshalString(k.String())
}

// UnmarshalCBOR maps any unrecognized string to BackendUnknown.
func (k *BackendKind) UnmarshalCBOR(data []byte) error {
	s, err := cborUnmarshalString(data)
	if err != nil {
		return err
	}
	switch s {
	case "fold":
		*k = BackendFold
	case "stark":
		*k = BackendStark
	default:
		*k = BackendUnknown
	}
	return nil
}

// ProofArtifact is a serialized envelope for a proving backend's output.
// The CLI's prove/verify verbs do not use it: they read and write an
// encoded scheduler.FoldProofBundle directly. proof_bytes is treated as
// an opaque, backend-defined blob by everything except the backend that
// produced it. Meta is free-form diagnostic data and must never be parsed
// on a critical path.
type ProofArtifact struct {
	Backend      BackendKind     `json:"backend" cbor:"backend"`
	ManifestRoot [32]byte        `json:"manifest_root" cbor:"manifest_root"`
	ProofBytes   []byte          `json:"proof_bytes" cbor:"proof_bytes"`
	Meta         json.RawMessage `json:"meta,omitempty" cbor:"meta,omitempty"`
}

// Len returns len(ProofBytes).
func (a *ProofArtifact) Len() int { return len(a.ProofBytes) }

// IsEmpty reports whether ProofBytes is empty.
func (a *ProofArtifact) IsEmpty() bool { return len(a.ProofBytes) == 0 }
