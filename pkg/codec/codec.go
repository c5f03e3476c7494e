package codec

import (
	"fmt"
	"sort"
)

// Codec transforms a block's flat payload bytes into their stored form and
// back. Raw bytes are always the little-endian, row-major serialization of
// the array: n elements of elemSize bytes each.
type Codec interface {
	// Name identifies the codec in the container manifest.
	Name() string

	// Ext is the suffix appended to the payload filename ("data.bin" plus
	// Ext), empty for codecs that store the bytes as-is.
	Ext() string

	// DescriptorExt is the suffix of the block descriptor filename
	// ("dtype" plus DescriptorExt).
	DescriptorExt() string

	// RandomAccess reports whether the stored form supports positional
	// reads and writes of element ranges. Codecs without random access
	// only define whole-block reads and writes.
	RandomAccess() bool

	// Encode transforms raw payload bytes into their stored form.
	Encode(raw []byte, n, elemSize int) ([]byte, error)

	// Decode recovers raw payload bytes from their stored form. The
	// caller-supplied n and elemSize are the sole source of truth for the
	// target length; decoding with values mismatched to what was encoded
	// is undefined.
	Decode(stored []byte, n, elemSize int) ([]byte, error)
}

// Error represents a codec failure: a payload length inconsistent with the
// block's element count and width, or a truncated/corrupt stored stream.
type Error struct {
	Codec string // codec name
	Op    string // "encode" or "decode"
	Err   error  // underlying cause
}

func (e *Error) Error() string {
	return fmt.Sprintf("codec %s: %s: %v", e.Codec, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var registry = map[string]Codec{}

// Register makes a codec available to Get under its Name. Registering two
// codecs with the same name is a programming error.
func Register(c Codec) {
	if _, dup := registry[c.Name()]; dup {
		panic(fmt.Sprintf("codec %q registered twice", c.Name()))
	}
	registry[c.Name()] = c
}

// Get returns the codec registered under name.
func Get(name string) (Codec, bool) {
	c, ok := registry[name]
	return c, ok
}

// Default returns the codec used when a container is created without an
// explicit choice.
func Default() Codec {
	return Raw{}
}

// Names returns the registered codec names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
