package block

import "github.com/fxamacker/cbor/v2"

func cborMarshalString(s string) ([]byte, error) {
	return cbor.Marshal(s)
}

func cborUnmarshalString(data []byte) (string, error) {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}
