package scheduler

import "github.com/fxamacker/cbor/v2"

// EncodeBundle serializes a complete FoldProofBundle for the "proof" file
// written by prove and read back by verify. Balanced-mode bundles carry
// every proof body inline; minram-mode bundles carry SidecarIdx references
// instead, and the accompanying sidecar file travels alongside this one.
func EncodeBundle(b *FoldProofBundle) ([]byte, error) { return cbor.Marshal(b) }

// DecodeBundle deserializes a FoldProofBundle written by EncodeBundle.
func DecodeBundle(data []byte) (*FoldProofBundle, error) {
	var b FoldProofBundle
	if err := cbor.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
