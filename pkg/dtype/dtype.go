// Package dtype describes the binary layout of one array element.
//
// A Type is either a fixed-width scalar (bool, signed/unsigned integer,
// float, opaque bytes), a named-field record layout for table-like data,
// or the explicit null type that marks a block carrying no data. A Type is
// self-contained: it knows its element byte width and round-trips through
// JSON and msgpack without external context, which is what the block
// descriptor files require.
package dtype

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Kind identifies the interpretation of an element's bytes.
type Kind string

const (
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindUint   Kind = "uint"
	KindFloat  Kind = "float"
	KindBytes  Kind = "bytes"
	KindRecord Kind = "record"
	KindNull   Kind = "null"
)

// Field is one named column of a record type.
type Field struct {
	Name string `json:"name" msgpack:"name"`
	Type Type   `json:"type" msgpack:"type"`
}

// Type describes the binary layout of a single array element.
//
// Size is the byte width of a scalar kind and must be 0 for record and
// null kinds. Fields is populated only for KindRecord and its order is the
// element's field order on disk.
type Type struct {
	Kind   Kind    `json:"kind" msgpack:"kind"`
	Size   int     `json:"size,omitempty" msgpack:"size"`
	Fields []Field `json:"fields,omitempty" msgpack:"fields,omitempty"`
}

// Null returns the explicit "no data" element type.
func Null() Type { return Type{Kind: KindNull} }

// Bool returns the 1-byte boolean element type.
func Bool() Type { return Type{Kind: KindBool, Size: 1} }

// Int returns a signed integer element type of the given byte width.
func Int(size int) Type { return Type{Kind: KindInt, Size: size} }

// Uint returns an unsigned integer element type of the given byte width.
func Uint(size int) Type { return Type{Kind: KindUint, Size: size} }

// Float returns a floating-point element type of the given byte width.
func Float(size int) Type { return Type{Kind: KindFloat, Size: size} }

// Bytes returns a fixed-width opaque byte-string element type.
func Bytes(size int) Type { return Type{Kind: KindBytes, Size: size} }

// Record returns a named-field record layout for table-like data.
func Record(fields ...Field) Type { return Type{Kind: KindRecord, Fields: fields} }

// IsNull reports whether the type is the "no data" marker.
func (t Type) IsNull() bool { return t.Kind == KindNull }

// IsRecord reports whether the type is a multi-field record layout.
func (t Type) IsRecord() bool { return t.Kind == KindRecord }

// ElemSize returns the number of bytes one element of this type occupies.
// Record elements are the sum of their field widths; the null type is zero.
func (t Type) ElemSize() int {
	if t.Kind == KindRecord {
		n := 0
		for _, f := range t.Fields {
			n += f.Type.ElemSize()
		}
		return n
	}
	return t.Size
}

// Equal reports whether two types describe the same element layout.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind || t.Size != other.Size || len(t.Fields) != len(other.Fields) {
		return false
	}
	for i := range t.Fields {
		if t.Fields[i].Name != other.Fields[i].Name || !t.Fields[i].Type.Equal(other.Fields[i].Type) {
			return false
		}
	}
	return true
}

// Validate checks that the type is a layout this package can persist and
// reconstruct. Record fields must be uniquely named scalars.
func (t Type) Validate() error {
	if t.Kind != KindRecord && len(t.Fields) != 0 {
		return fmt.Errorf("%s dtype must not carry fields", t.Kind)
	}

	switch t.Kind {
	case KindBool:
		if t.Size != 1 {
			return fmt.Errorf("bool dtype size must be 1, got %d", t.Size)
		}
	case KindInt, KindUint:
		switch t.Size {
		case 1, 2, 4, 8:
		default:
			return fmt.Errorf("%s dtype size must be 1, 2, 4 or 8, got %d", t.Kind, t.Size)
		}
	case KindFloat:
		if t.Size != 4 && t.Size != 8 {
			return fmt.Errorf("float dtype size must be 4 or 8, got %d", t.Size)
		}
	case KindBytes:
		if t.Size < 1 {
			return fmt.Errorf("bytes dtype size must be at least 1, got %d", t.Size)
		}
	case KindRecord:
		if t.Size != 0 {
			return fmt.Errorf("record dtype size must be 0, got %d", t.Size)
		}
		if len(t.Fields) == 0 {
			return fmt.Errorf("record dtype must have at least one field")
		}
		seen := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			if f.Name == "" {
				return fmt.Errorf("record field name must not be empty")
			}
			if seen[f.Name] {
				return fmt.Errorf("duplicate record field name %q", f.Name)
			}
			seen[f.Name] = true
			if f.Type.Kind == KindRecord || f.Type.Kind == KindNull {
				return fmt.Errorf("record field %q must be a scalar type", f.Name)
			}
			if err := f.Type.Validate(); err != nil {
				return fmt.Errorf("record field %q: %w", f.Name, err)
			}
		}
	case KindNull:
		if t.Size != 0 {
			return fmt.Errorf("null dtype size must be 0, got %d", t.Size)
		}
	default:
		return fmt.Errorf("unknown dtype kind %q", t.Kind)
	}

	return nil
}

// plain is Type without methods, so marshaling inside the custom
// codecs below cannot recurse.
type plain Type

// MarshalJSON renders the null type as a JSON null, which is the on-disk
// no-data marker in dtype descriptor files.
func (t Type) MarshalJSON() ([]byte, error) {
	if t.Kind == KindNull {
		return []byte("null"), nil
	}
	return json.Marshal(plain(t))
}

// UnmarshalJSON accepts a JSON null as the null type.
func (t *Type) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*t = Type{Kind: KindNull}
		return nil
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Type(p)
	return nil
}

// EncodeMsgpack mirrors MarshalJSON: the null type is encoded as nil.
func (t Type) EncodeMsgpack(enc *msgpack.Encoder) error {
	if t.Kind == KindNull {
		return enc.EncodeNil()
	}
	return enc.Encode(plain(t))
}

// DecodeMsgpack mirrors UnmarshalJSON: a nil value decodes to the null type.
func (t *Type) DecodeMsgpack(dec *msgpack.Decoder) error {
	code, err := dec.PeekCode()
	if err != nil {
		return err
	}
	if code == msgpcode.Nil {
		if err := dec.DecodeNil(); err != nil {
			return err
		}
		*t = Type{Kind: KindNull}
		return nil
	}
	var p plain
	if err := dec.Decode(&p); err != nil {
		return err
	}
	*t = Type(p)
	return nil
}
