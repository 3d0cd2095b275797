package fold

import "github.com/fxamacker/cbor/v2"

// EncodeLeaf serializes a LeafProof for sidecar/bundle storage.
func EncodeLeaf(p *LeafProof) ([]byte, error) { return cbor.Marshal(p) }

// DecodeLeaf deserializes a LeafProof.
func DecodeLeaf(data []byte) (*LeafProof, error) {
	var p LeafProof
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// EncodeFold serializes a FoldProof for sidecar/bundle storage.
func EncodeFold(p *FoldProof) ([]byte, error) { return cbor.Marshal(p) }

// DecodeFold deserializes a FoldProof.
func DecodeFold(data []byte) (*FoldProof, error) {
	var p FoldProof
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// EncodeWrap serializes a WrapProof for bundle storage.
func EncodeWrap(p *WrapProof) ([]byte, error) { return cbor.Marshal(p) }

// DecodeWrap deserializes a WrapProof.
func DecodeWrap(data []byte) (*WrapProof, error) {
	var p WrapProof
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
