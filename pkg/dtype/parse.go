package dtype

import (
	"fmt"
	"strconv"
	"strings"
)

var scalarKinds = map[byte]Kind{
	'b': KindBool,
	'i': KindInt,
	'u': KindUint,
	'f': KindFloat,
	'S': KindBytes,
}

var scalarCodes = map[Kind]byte{
	KindBool:  'b',
	KindInt:   'i',
	KindUint:  'u',
	KindFloat: 'f',
	KindBytes: 'S',
}

// Parse converts a short type code into a Type.
//
// Scalar codes are a kind letter followed by the byte width: "b1", "i1"
// through "i8", "u1" through "u8", "f4", "f8", and "S<n>" for fixed-width
// byte strings. Record layouts are comma-separated "NAME:code" pairs, e.g.
// "RA:f8,DEC:f8,FLAGS:u2". The literal "null" is the no-data type.
func Parse(code string) (Type, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Type{}, fmt.Errorf("empty dtype code")
	}
	if code == "null" {
		return Null(), nil
	}

	if strings.ContainsRune(code, ':') {
		parts := strings.Split(code, ",")
		fields := make([]Field, 0, len(parts))
		for _, part := range parts {
			name, fieldCode, ok := strings.Cut(strings.TrimSpace(part), ":")
			name = strings.TrimSpace(name)
			if !ok || name == "" {
				return Type{}, fmt.Errorf("invalid record field %q in dtype code %q", part, code)
			}
			ft, err := parseScalar(strings.TrimSpace(fieldCode))
			if err != nil {
				return Type{}, fmt.Errorf("record field %q: %w", name, err)
			}
			fields = append(fields, Field{Name: name, Type: ft})
		}
		t := Record(fields...)
		if err := t.Validate(); err != nil {
			return Type{}, fmt.Errorf("invalid dtype code %q: %w", code, err)
		}
		return t, nil
	}

	return parseScalar(code)
}

func parseScalar(code string) (Type, error) {
	if len(code) < 2 {
		return Type{}, fmt.Errorf("invalid dtype code %q", code)
	}
	kind, ok := scalarKinds[code[0]]
	if !ok {
		return Type{}, fmt.Errorf("unknown dtype code %q", code)
	}
	size, err := strconv.Atoi(code[1:])
	if err != nil {
		return Type{}, fmt.Errorf("invalid dtype code %q", code)
	}
	t := Type{Kind: kind, Size: size}
	if err := t.Validate(); err != nil {
		return Type{}, fmt.Errorf("invalid dtype code %q: %w", code, err)
	}
	return t, nil
}

// String renders the type in the short-code form accepted by Parse.
func (t Type) String() string {
	switch t.Kind {
	case KindNull:
		return "null"
	case KindRecord:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ":" + f.Type.String()
		}
		return strings.Join(parts, ",")
	default:
		c, ok := scalarCodes[t.Kind]
		if !ok {
			return string(t.Kind)
		}
		return string(c) + strconv.Itoa(t.Size)
	}
}
