package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ShuffledCompressed stores payloads as a byte-shuffle transform followed by
// zstd block compression. The shuffle views the payload as an n×elemSize
// byte matrix and transposes it, grouping same-significance bytes across
// elements so the entropy coder sees long runs of similar bytes.
//
// The stored stream is variable-size and supports only whole-block reads
// and writes; the block's persisted shape and element type are the sole
// source of truth for the decode target length.
type ShuffledCompressed struct{}

func init() {
	Register(ShuffledCompressed{})
}

// Stateless EncodeAll/DecodeAll usage per the zstd package docs; creating
// with a nil reader/writer and no options cannot fail.
var (
	zstdEnc, _ = zstd.NewWriter(nil)
	zstdDec, _ = zstd.NewReader(nil)
)

// Name implements Codec.
func (ShuffledCompressed) Name() string { return "bshuf-zstd" }

// Ext implements Codec.
func (ShuffledCompressed) Ext() string { return ".zst" }

// DescriptorExt implements Codec. The compressed variant persists its
// descriptor as msgpack so structured element types round-trip exactly.
func (ShuffledCompressed) DescriptorExt() string { return ".mpk" }

// RandomAccess implements Codec. Partial access is not defined on a
// compressed stream.
func (ShuffledCompressed) RandomAccess() bool { return false }

// Encode implements Codec: shuffle then compress.
func (c ShuffledCompressed) Encode(raw []byte, n, elemSize int) ([]byte, error) {
	if err := checkLength(c.Name(), "encode", len(raw), n, elemSize); err != nil {
		return nil, err
	}
	return zstdEnc.EncodeAll(shuffle(raw, n, elemSize), nil), nil
}

// Decode implements Codec: decompress then unshuffle.
func (c ShuffledCompressed) Decode(stored []byte, n, elemSize int) ([]byte, error) {
	shuffled, err := zstdDec.DecodeAll(stored, nil)
	if err != nil {
		return nil, &Error{Codec: c.Name(), Op: "decode", Err: fmt.Errorf("corrupt zstd stream: %w", err)}
	}
	if err := checkLength(c.Name(), "decode", len(shuffled), n, elemSize); err != nil {
		return nil, err
	}
	return unshuffle(shuffled, n, elemSize), nil
}

// shuffle transposes the n×elemSize byte matrix: output position j*n+i
// holds byte j of element i.
func shuffle(raw []byte, n, elemSize int) []byte {
	if elemSize <= 1 {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out
	}
	out := make([]byte, len(raw))
	for i := 0; i < n; i++ {
		for j := 0; j < elemSize; j++ {
			out[j*n+i] = raw[i*elemSize+j]
		}
	}
	return out
}

// unshuffle inverts shuffle.
func unshuffle(shuffled []byte, n, elemSize int) []byte {
	if elemSize <= 1 {
		out := make([]byte, len(shuffled))
		copy(out, shuffled)
		return out
	}
	out := make([]byte, len(shuffled))
	for i := 0; i < n; i++ {
		for j := 0; j < elemSize; j++ {
			out[i*elemSize+j] = shuffled[j*n+i]
		}
	}
	return out
}
