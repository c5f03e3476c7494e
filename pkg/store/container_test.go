package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/gersemi/pkg/codec"
	"github.com/ssargent/gersemi/pkg/dtype"
)

func tempRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "gersemi_store_*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "container")
}

func TestContainer_CreateOpen(t *testing.T) {
	root := tempRoot(t)

	c, err := Create(root)
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, manifestVersion, c.Version())
	assert.Equal(t, "raw", c.Codec().Name())
	assert.Equal(t, 0, c.Len())
	require.NoError(t, c.Close())

	reopened, err := Open(root)
	require.NoError(t, err)
	assert.Equal(t, c.ID(), reopened.ID())
	assert.Equal(t, "raw", reopened.Codec().Name())
	assert.Empty(t, reopened.Names())
}

func TestContainer_CreateIdempotent(t *testing.T) {
	root := tempRoot(t)

	c, err := Create(root)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	// Creating again over an existing directory is allowed; it writes a
	// fresh manifest.
	c2, err := Create(root)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID(), c2.ID())
}

func TestContainer_CreateOverFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "gersemi_store_*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "occupied")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err = Create(path)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestContainer_OpenMissing(t *testing.T) {
	root := tempRoot(t)

	_, err := Open(root)
	assert.ErrorIs(t, err, ErrNotFound)

	// A directory without a manifest is equally not a container.
	require.NoError(t, os.MkdirAll(root, 0755))
	_, err = Open(root)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContainer_OpenCorruptIndex(t *testing.T) {
	testCases := []struct {
		name     string
		manifest string
	}{
		{name: "not json", manifest: "{{{"},
		{name: "unknown codec", manifest: `{"version":1,"id":"x","codec":"lzma","blocks":[]}`},
		{name: "unsupported version", manifest: `{"version":99,"id":"x","codec":"raw","blocks":[]}`},
		{name: "duplicate names", manifest: `{"version":1,"id":"x","codec":"raw","blocks":["a","a"]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := tempRoot(t)
			require.NoError(t, os.MkdirAll(root, 0755))
			require.NoError(t, os.WriteFile(filepath.Join(root, "blocks.json"), []byte(tc.manifest), 0644))

			_, err := Open(root)
			assert.ErrorIs(t, err, ErrCorruptIndex)
		})
	}
}

func TestContainer_LegacyManifest(t *testing.T) {
	root := tempRoot(t)
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocks.json"), []byte(`["a", "b"]`), 0644))

	c, err := Open(root)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Version())
	assert.Equal(t, "raw", c.Codec().Name())
	assert.Equal(t, []string{"a", "b"}, c.Names())
	assert.Empty(t, c.ID())

	// Flushing a legacy container keeps the legacy form.
	require.NoError(t, c.Flush())
	data, err := os.ReadFile(filepath.Join(root, "blocks.json"))
	require.NoError(t, err)
	assert.Equal(t, byte('['), data[0])
}

func TestContainer_SortedNames(t *testing.T) {
	root := tempRoot(t)

	c, err := Create(root)
	require.NoError(t, err)

	for _, name := range []string{"b", "a", "c"} {
		_, err := c.CreateBlock(name, []int{2}, dtype.Int(4))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b", "c"}, c.Names())
	require.NoError(t, c.Close())

	reopened, err := Open(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, reopened.Names())
}

func TestContainer_DuplicateName(t *testing.T) {
	root := tempRoot(t)

	c, err := Create(root)
	require.NoError(t, err)

	b, err := c.CreateBlock("dup", []int{4}, dtype.Float(8))
	require.NoError(t, err)
	require.NoError(t, b.UpdateMeta(map[string]any{"ORIGIN": "first"}))
	require.NoError(t, b.Close())

	_, err = c.CreateBlock("dup", []int{9}, dtype.Int(2))
	assert.ErrorIs(t, err, ErrDuplicateName)

	// The existing block is untouched.
	existing, err := c.OpenBlock("dup")
	require.NoError(t, err)
	assert.Equal(t, []int{4}, existing.Shape())
	assert.True(t, existing.Dtype().Equal(dtype.Float(8)))
	assert.Equal(t, "first", existing.Meta()["ORIGIN"])
}

func TestContainer_IndexAuthoritative(t *testing.T) {
	root := tempRoot(t)

	c, err := Create(root)
	require.NoError(t, err)

	// A directory on disk without an index entry is invisible.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "stray"), 0755))
	_, err = c.OpenBlock("stray")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, c.Has("stray"))
}

func TestContainer_UnflushedMembershipLost(t *testing.T) {
	root := tempRoot(t)

	c, err := Create(root)
	require.NoError(t, err)

	b, err := c.CreateBlock("orphan", []int{2}, dtype.Int(4))
	require.NoError(t, err)
	require.NoError(t, b.Close())
	// No container flush: the block's files exist but membership was
	// never persisted.

	reopened, err := Open(root)
	require.NoError(t, err)
	assert.False(t, reopened.Has("orphan"))

	_, err = os.Stat(filepath.Join(root, "orphan", "dtype.json"))
	assert.NoError(t, err, "block files exist on disk despite the lost index entry")
}

func TestContainer_InvalidBlockNames(t *testing.T) {
	root := tempRoot(t)

	c, err := Create(root)
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "a/b", `a\b`, "blocks.json"} {
		_, err := c.CreateBlock(name, []int{1}, dtype.Int(4))
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestContainer_WithCodec(t *testing.T) {
	root := tempRoot(t)

	c, err := Create(root, WithCodec(codec.ShuffledCompressed{}))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	reopened, err := Open(root)
	require.NoError(t, err)
	assert.Equal(t, "bshuf-zstd", reopened.Codec().Name())
}

func TestContainer_OpenBlockNotFound(t *testing.T) {
	root := tempRoot(t)

	c, err := Create(root)
	require.NoError(t, err)

	_, err = c.OpenBlock("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContainer_CorruptDescriptor(t *testing.T) {
	root := tempRoot(t)

	c, err := Create(root)
	require.NoError(t, err)

	_, err = c.CreateBlock("bad", []int{2}, dtype.Int(4))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "bad", "dtype.json"), []byte("not json"), 0644))
	_, err = c.OpenBlock("bad")
	assert.ErrorIs(t, err, ErrCorruptDescriptor)

	// A deleted descriptor is NotFound, not corruption.
	require.NoError(t, os.Remove(filepath.Join(root, "bad", "dtype.json")))
	_, err = c.OpenBlock("bad")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContainer_FlushIdempotent(t *testing.T) {
	root := tempRoot(t)

	c, err := Create(root)
	require.NoError(t, err)
	_, err = c.CreateBlock("a", []int{1}, dtype.Int(4))
	require.NoError(t, err)

	require.NoError(t, c.Flush())
	require.NoError(t, c.Flush())
	require.NoError(t, c.Close())

	reopened, err := Open(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, reopened.Names())
}

func TestStoreError_Matching(t *testing.T) {
	root := tempRoot(t)

	_, err := Open(root)
	require.Error(t, err)

	var serr *StoreError
	assert.True(t, errors.As(err, &serr))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrCorruptIndex)
}
