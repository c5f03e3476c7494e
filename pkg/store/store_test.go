package store

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/gersemi/pkg/dtype"
)

// TestEndToEnd walks the full conversion flow: create a container, store
// an image-like block with header metadata, flush everything, reopen from
// disk and compare element for element.
func TestEndToEnd(t *testing.T) {
	dir, err := os.MkdirTemp("", "gersemi_e2e_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)
	root := filepath.Join(dir, "out.gersemi")

	matrix := [3][3]float64{
		{1.0, 2.0, 3.0},
		{4.5, 5.5, 6.5},
		{-7.0, 8.25, 9.125},
	}
	payload := make([]byte, 9*8)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			binary.LittleEndian.PutUint64(payload[(i*3+j)*8:], math.Float64bits(matrix[i][j]))
		}
	}

	// Write path.
	c, err := Create(root)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	b, err := c.CreateBlock("HDU-0000", []int{3, 3}, dtype.Float(8))
	if err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}
	if err := b.WriteAll(payload); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	if err := b.UpdateMeta(map[string]any{"EXTNAME": "IMG"}); err != nil {
		t.Fatalf("UpdateMeta failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Block close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Container close failed: %v", err)
	}

	// Read path, from disk only.
	reopened, err := Open(root)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !reopened.Has("HDU-0000") {
		t.Fatalf("HDU-0000 missing from index, names: %v", reopened.Names())
	}

	rb, err := reopened.OpenBlock("HDU-0000")
	if err != nil {
		t.Fatalf("OpenBlock failed: %v", err)
	}
	if got := rb.Meta()["EXTNAME"]; got != "IMG" {
		t.Fatalf("EXTNAME = %v, want IMG", got)
	}

	got, err := rb.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := math.Float64frombits(binary.LittleEndian.Uint64(got[(i*3+j)*8:]))
			if v != matrix[i][j] {
				t.Errorf("element [%d][%d] = %v, want %v", i, j, v, matrix[i][j])
			}
		}
	}
}
