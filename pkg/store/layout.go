package store

import (
	"path/filepath"
	"strings"

	"github.com/ssargent/gersemi/pkg/codec"
)

// layout owns every subpath under a container root, so the on-disk naming
// contract lives in one place.
type layout struct {
	root string
}

func (l layout) manifestPath() string {
	return filepath.Join(l.root, "blocks.json")
}

func (l layout) blockDir(name string) string {
	return filepath.Join(l.root, name)
}

func (l layout) dataPath(name string, c codec.Codec) string {
	return filepath.Join(l.root, name, "data.bin"+c.Ext())
}

func (l layout) descriptorPath(name string, c codec.Codec) string {
	return filepath.Join(l.root, name, "dtype"+c.DescriptorExt())
}

func (l layout) metaPath(name string) string {
	return filepath.Join(l.root, name, "meta.json")
}

// validateName checks that a block name is usable as a single path
// element under the container root.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, "/\\") || strings.ContainsRune(name, 0) {
		return ErrInvalidName
	}
	if name == "blocks.json" {
		// Would collide with the manifest.
		return ErrInvalidName
	}
	return nil
}
