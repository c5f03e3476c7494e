package codec

import "fmt"

// Raw is the identity codec: stored bytes are the flat array itself. The
// backing file size is exactly n*elemSize, knowable before any data is
// written, so random access at computed element offsets is defined.
type Raw struct{}

func init() {
	Register(Raw{})
}

// Name implements Codec.
func (Raw) Name() string { return "raw" }

// Ext implements Codec. Raw payloads carry no suffix.
func (Raw) Ext() string { return "" }

// DescriptorExt implements Codec.
func (Raw) DescriptorExt() string { return ".json" }

// RandomAccess implements Codec.
func (Raw) RandomAccess() bool { return true }

// Encode implements Codec. It validates the length and returns the input
// unchanged.
func (Raw) Encode(raw []byte, n, elemSize int) ([]byte, error) {
	if err := checkLength("raw", "encode", len(raw), n, elemSize); err != nil {
		return nil, err
	}
	return raw, nil
}

// Decode implements Codec. It validates the length and returns the input
// unchanged.
func (Raw) Decode(stored []byte, n, elemSize int) ([]byte, error) {
	if err := checkLength("raw", "decode", len(stored), n, elemSize); err != nil {
		return nil, err
	}
	return stored, nil
}

func checkLength(codec, op string, got, n, elemSize int) error {
	if want := n * elemSize; got != want {
		return &Error{
			Codec: codec,
			Op:    op,
			Err:   fmt.Errorf("payload is %d bytes, want %d (%d elements of %d bytes)", got, want, n, elemSize),
		}
	}
	return nil
}
