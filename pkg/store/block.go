package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ssargent/gersemi/pkg/codec"
	"github.com/ssargent/gersemi/pkg/dtype"
)

// Block is one named array unit: shape, element type, metadata and
// payload, persisted as its own subdirectory under the container root.
// Shape and element type are immutable after creation; a size change
// means creating a new block.
type Block struct {
	name   string
	shape  []int
	dt     dtype.Type
	meta   Metadata
	layout layout
	codec  codec.Codec
}

// Name returns the block name.
func (b *Block) Name() string { return b.name }

// Shape returns a copy of the block's shape.
func (b *Block) Shape() []int {
	return append([]int(nil), b.shape...)
}

// Dtype returns the block's element type.
func (b *Block) Dtype() dtype.Type { return b.dt }

// Len returns the number of elements, the product of the shape.
func (b *Block) Len() int { return product(b.shape) }

// Meta returns a copy of the block's metadata mapping. Mutations go
// through UpdateMeta.
func (b *Block) Meta() Metadata { return b.meta.clone() }

// size returns the raw payload byte length.
func (b *Block) size() int { return b.Len() * b.dt.ElemSize() }

// initPayload sets up the block's backing storage at creation time.
// Random-access codecs get a sparse file pre-sized to the exact payload
// length; whole-block codecs get a zero-valued array written through the
// codec. Null-dtype blocks carry no payload file at all.
func (b *Block) initPayload() error {
	if b.dt.IsNull() {
		return nil
	}

	path := b.layout.dataPath(b.name, b.codec)

	if b.codec.RandomAccess() {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		if err := f.Truncate(int64(b.size())); err != nil {
			f.Close()
			return fmt.Errorf("failed to pre-size payload file: %w", err)
		}
		return f.Close()
	}

	stored, err := b.codec.Encode(make([]byte, b.size()), b.Len(), b.dt.ElemSize())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, stored, 0644); err != nil {
		return fmt.Errorf("failed to write payload file: %w", err)
	}
	return nil
}

// load reads the persisted descriptor and metadata.
func (b *Block) load() error {
	data, err := os.ReadFile(b.layout.descriptorPath(b.name, b.codec))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: block %q has no descriptor", ErrNotFound, b.name)
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var d descriptor
	if b.codec.DescriptorExt() == ".mpk" {
		err = msgpack.Unmarshal(data, &d)
	} else {
		err = json.Unmarshal(data, &d)
	}
	if err != nil {
		return fmt.Errorf("%w: block %q: %v", ErrCorruptDescriptor, b.name, err)
	}
	if err := d.Dtype.Validate(); err != nil {
		return fmt.Errorf("%w: block %q: %v", ErrCorruptDescriptor, b.name, err)
	}
	for _, dim := range d.Shape {
		if dim < 0 {
			return fmt.Errorf("%w: block %q: negative dimension %d", ErrCorruptDescriptor, b.name, dim)
		}
	}
	b.shape = d.Shape
	b.dt = d.Dtype

	metaData, err := os.ReadFile(b.layout.metaPath(b.name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: block %q has no metadata file", ErrNotFound, b.name)
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	meta, err := decodeMeta(metaData)
	if err != nil {
		return fmt.Errorf("%w: block %q metadata: %v", ErrCorruptDescriptor, b.name, err)
	}
	b.meta = meta
	return nil
}

// ReadAll returns the whole decoded payload. A null-dtype block yields
// nil, the explicit "no data" result.
func (b *Block) ReadAll() ([]byte, error) {
	if b.dt.IsNull() {
		return nil, nil
	}

	stored, err := os.ReadFile(b.layout.dataPath(b.name, b.codec))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: block %q has no payload file", ErrNotFound, b.name)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return b.codec.Decode(stored, b.Len(), b.dt.ElemSize())
}

// ReadRange returns elements [lo, hi) of the payload. Ranges short of the
// whole array are only defined on random-access codecs and read
// positionally, without loading the full file.
func (b *Block) ReadRange(lo, hi int) ([]byte, error) {
	n := b.Len()
	if lo < 0 || hi < lo || hi > n {
		return nil, fmt.Errorf("range [%d, %d) out of bounds for %d elements", lo, hi, n)
	}
	if lo == 0 && hi == n {
		return b.ReadAll()
	}
	if !b.codec.RandomAccess() {
		return nil, fmt.Errorf("%w: codec %s only supports whole-block reads", ErrUnsupportedAccess, b.codec.Name())
	}

	f, err := os.Open(b.layout.dataPath(b.name, b.codec))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: block %q has no payload file", ErrNotFound, b.name)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer f.Close()

	es := b.dt.ElemSize()
	buf := make([]byte, (hi-lo)*es)
	if _, err := f.ReadAt(buf, int64(lo*es)); err != nil {
		return nil, &codec.Error{
			Codec: b.codec.Name(),
			Op:    "decode",
			Err:   fmt.Errorf("payload file truncated: %w", err),
		}
	}
	return buf, nil
}

// WriteAll replaces the whole payload. The length must be exactly
// Len()*ElemSize; anything else fails with a codec error.
func (b *Block) WriteAll(p []byte) error {
	stored, err := b.codec.Encode(p, b.Len(), b.dt.ElemSize())
	if err != nil {
		return err
	}
	if b.dt.IsNull() {
		// No payload file; the zero-length write is a no-op.
		return nil
	}
	if err := os.WriteFile(b.layout.dataPath(b.name, b.codec), stored, 0644); err != nil {
		return fmt.Errorf("failed to write payload file: %w", err)
	}
	return nil
}

// WriteRange writes elements starting at index lo. Writes short of the
// whole array are only defined on random-access codecs and are positional:
// bytes land at lo*ElemSize without a read-modify-write of the rest of the
// file. The single-writer convention still applies.
func (b *Block) WriteRange(lo int, p []byte) error {
	es := b.dt.ElemSize()
	if es > 0 && len(p)%es != 0 {
		return &codec.Error{
			Codec: b.codec.Name(),
			Op:    "encode",
			Err:   fmt.Errorf("payload is %d bytes, not a multiple of the %d-byte element size", len(p), es),
		}
	}

	var count int
	if es > 0 {
		count = len(p) / es
	}
	n := b.Len()
	if lo < 0 || lo+count > n {
		return fmt.Errorf("range [%d, %d) out of bounds for %d elements", lo, lo+count, n)
	}
	if lo == 0 && count == n {
		return b.WriteAll(p)
	}
	if !b.codec.RandomAccess() {
		return fmt.Errorf("%w: codec %s only supports whole-block writes", ErrUnsupportedAccess, b.codec.Name())
	}

	f, err := os.OpenFile(b.layout.dataPath(b.name, b.codec), os.O_WRONLY, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: block %q has no payload file", ErrNotFound, b.name)
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer f.Close()

	if _, err := f.WriteAt(p, int64(lo*es)); err != nil {
		return fmt.Errorf("failed to write payload range: %w", err)
	}
	return nil
}

// UpdateMeta merges the given pairs into the block's metadata, overwriting
// on key collision. Every value is validated as JSON-representable before
// any of them is applied, so a rejected mapping leaves the metadata
// untouched.
func (b *Block) UpdateMeta(m map[string]any) error {
	staged := make(Metadata, len(m))
	for k, v := range m {
		nv, err := normalizeValue(v)
		if err != nil {
			return fmt.Errorf("metadata key %q: %w", k, err)
		}
		staged[k] = nv
	}
	for k, v := range staged {
		b.meta[k] = v
	}
	return nil
}

// Flush persists the descriptor and metadata to stable storage.
// Idempotent; the payload is persisted by WriteAll/WriteRange, not here.
func (b *Block) Flush() error {
	d := descriptor{Dtype: b.dt, Shape: b.shape}
	if d.Shape == nil {
		d.Shape = []int{}
	}

	var (
		data []byte
		err  error
	)
	if b.codec.DescriptorExt() == ".mpk" {
		data, err = msgpack.Marshal(d)
	} else {
		data, err = json.MarshalIndent(d, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal block descriptor: %w", err)
	}
	if err := os.WriteFile(b.layout.descriptorPath(b.name, b.codec), data, 0644); err != nil {
		return fmt.Errorf("failed to write block descriptor: %w", err)
	}

	metaData, err := json.MarshalIndent(b.meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal block metadata: %w", err)
	}
	if err := os.WriteFile(b.layout.metaPath(b.name), metaData, 0644); err != nil {
		return fmt.Errorf("failed to write block metadata: %w", err)
	}
	return nil
}

// Close flushes, so scoped use (defer b.Close()) never forgets to persist
// metadata.
func (b *Block) Close() error {
	return b.Flush()
}

// decodeMeta parses a metadata file, keeping numbers as json.Number so a
// reload compares equal to what UpdateMeta stored.
func decodeMeta(data []byte) (Metadata, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m Metadata
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		m = Metadata{}
	}
	return m, nil
}
