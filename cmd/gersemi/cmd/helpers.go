package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parseShape converts a comma-separated dimension list like "3,3" into a
// shape. An empty string is the scalar (zero-dimensional) shape.
func parseShape(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	shape := make([]int, len(parts))
	for i, part := range parts {
		dim, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid dimension %q in shape %q", part, s)
		}
		if dim < 0 {
			return nil, fmt.Errorf("negative dimension %d in shape %q", dim, s)
		}
		shape[i] = dim
	}
	return shape, nil
}

// parseMetaArgs converts repeated "KEY=value" arguments into a metadata
// mapping. Values that parse as JSON keep their JSON type (numbers,
// booleans, null, nested structures); everything else is a string, so
// plain --meta EXTNAME=IMG works without quoting.
func parseMetaArgs(args []string) (map[string]any, error) {
	meta := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata argument %q, want KEY=value", arg)
		}
		dec := json.NewDecoder(strings.NewReader(value))
		dec.UseNumber()
		var parsed any
		if err := dec.Decode(&parsed); err == nil && !dec.More() {
			meta[key] = parsed
		} else {
			meta[key] = value
		}
	}
	return meta, nil
}

// parseRange converts "lo:hi" into element bounds.
func parseRange(s string) (lo, hi int, err error) {
	loStr, hiStr, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid range %q, want lo:hi", s)
	}
	lo, err = strconv.Atoi(loStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %v", s, err)
	}
	hi, err = strconv.Atoi(hiStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %v", s, err)
	}
	return lo, hi, nil
}
