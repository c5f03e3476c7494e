package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/gersemi/pkg/codec"
	"github.com/ssargent/gersemi/pkg/dtype"
)

// Container is a directory-rooted collection of blocks plus their sorted
// name index. The index, not the directory listing, is authoritative for
// membership.
type Container struct {
	layout  layout
	version int
	id      string
	codec   codec.Codec
	names   []string // sorted, unique
}

// Option configures container creation.
type Option func(*Container)

// WithCodec selects the payload codec for every block in the container.
// The default is the raw codec.
func WithCodec(c codec.Codec) Option {
	return func(ct *Container) {
		ct.codec = c
	}
}

// Create allocates the container root directory (idempotent) and writes an
// empty manifest. It fails with ErrStorageUnavailable if the path cannot
// be made into a usable directory.
func Create(root string, opts ...Option) (*Container, error) {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("%w: %s exists and is not a directory", ErrStorageUnavailable, root)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	c := &Container{
		layout:  layout{root: root},
		version: manifestVersion,
		id:      ksuid.New().String(),
		codec:   codec.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.Flush(); err != nil {
		return nil, err
	}
	return c, nil
}

// Open loads a container's persisted manifest. It fails with ErrNotFound
// if the manifest is missing and ErrCorruptIndex if it is unparsable or
// names an unknown codec.
//
// Both manifest generations open here: the current object form and the
// legacy bare name array (version 0, raw codec implied).
func Open(root string) (*Container, error) {
	l := layout{root: root}

	data, err := os.ReadFile(l.manifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no container manifest at %s", ErrNotFound, l.manifestPath())
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	c := &Container{layout: l}

	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		// Legacy generation: a bare sorted array of names.
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
		}
		c.version = 0
		c.codec = codec.Raw{}
		c.names = names
	} else {
		var m manifest
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
		}
		if m.Version < 1 || m.Version > manifestVersion {
			return nil, fmt.Errorf("%w: unsupported manifest version %d", ErrCorruptIndex, m.Version)
		}
		cd, ok := codec.Get(m.Codec)
		if !ok {
			return nil, fmt.Errorf("%w: unknown codec %q", ErrCorruptIndex, m.Codec)
		}
		c.version = m.Version
		c.id = m.ID
		c.codec = cd
		c.names = m.Blocks
	}

	sort.Strings(c.names)
	for i := 1; i < len(c.names); i++ {
		if c.names[i] == c.names[i-1] {
			return nil, fmt.Errorf("%w: duplicate block name %q", ErrCorruptIndex, c.names[i])
		}
	}
	return c, nil
}

// Root returns the container's root directory.
func (c *Container) Root() string { return c.layout.root }

// ID returns the container's identity assigned at creation. Legacy
// containers have none.
func (c *Container) ID() string { return c.id }

// Version returns the manifest format generation the container was
// opened from.
func (c *Container) Version() int { return c.version }

// Codec returns the container-wide payload codec.
func (c *Container) Codec() codec.Codec { return c.codec }

// Names returns the block names in sorted order. The sorted order is the
// canonical listing order for any caller enumerating the container.
func (c *Container) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Has reports whether a block name is present in the index.
func (c *Container) Has(name string) bool {
	i := sort.SearchStrings(c.names, name)
	return i < len(c.names) && c.names[i] == name
}

// Len returns the number of blocks in the index.
func (c *Container) Len() int { return len(c.names) }

// CreateBlock allocates a new block: its subdirectory, initialized payload
// storage, descriptor and empty metadata. The name is inserted into the
// in-memory index; membership becomes durable only on the next container
// Flush.
func (c *Container) CreateBlock(name string, shape []int, dt dtype.Type) (*Block, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := dt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dtype for block %q: %w", name, err)
	}
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("invalid shape for block %q: negative dimension %d", name, dim)
		}
	}
	if dt.IsNull() && product(shape) != 0 {
		return nil, fmt.Errorf("invalid shape for block %q: null dtype requires zero elements", name)
	}
	if c.Has(name) {
		return nil, ErrDuplicateName
	}

	dir := c.layout.blockDir(name)
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("%w: %s exists and is not a directory", ErrStorageUnavailable, dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	b := &Block{
		name:   name,
		shape:  append([]int(nil), shape...),
		dt:     dt,
		meta:   Metadata{},
		layout: c.layout,
		codec:  c.codec,
	}

	if err := b.initPayload(); err != nil {
		return nil, err
	}
	if err := b.Flush(); err != nil {
		return nil, err
	}

	c.names = append(c.names, name)
	sort.Strings(c.names)
	return b, nil
}

// OpenBlock reloads a block's descriptor and metadata. The payload is not
// read eagerly. It fails with ErrNotFound if the name is not in the index,
// even when a directory of that name happens to exist on disk.
func (c *Container) OpenBlock(name string) (*Block, error) {
	if !c.Has(name) {
		return nil, fmt.Errorf("%w: block %q is not in the container index", ErrNotFound, name)
	}

	b := &Block{
		name:   name,
		layout: c.layout,
		codec:  c.codec,
	}
	if err := b.load(); err != nil {
		return nil, err
	}
	return b, nil
}

// Flush persists the block-name index in the generation the container
// was opened from. Idempotent.
func (c *Container) Flush() error {
	var payload any
	if c.version == 0 {
		// Legacy containers keep the bare-array form so a pure read
		// followed by Close does not rewrite the manifest generation.
		names := c.names
		if names == nil {
			names = []string{}
		}
		payload = names
	} else {
		m := manifest{
			Version: c.version,
			ID:      c.id,
			Codec:   c.codec.Name(),
			Blocks:  c.names,
		}
		if m.Blocks == nil {
			m.Blocks = []string{}
		}
		payload = m
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal container manifest: %w", err)
	}
	if err := os.WriteFile(c.layout.manifestPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write container manifest: %w", err)
	}
	return nil
}

// Close flushes the index, so scoped use (defer c.Close()) never forgets
// to persist membership.
func (c *Container) Close() error {
	return c.Flush()
}

func product(shape []int) int {
	n := 1
	for _, dim := range shape {
		n *= dim
	}
	return n
}
