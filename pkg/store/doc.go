// Package store implements the gersemi block container: a filesystem
// directory holding named, typed, multi-dimensional array blocks with
// free-form metadata.
//
// A Container owns the sorted index of block names and the codec every
// block's payload goes through; a Block owns one array unit (shape,
// element type, metadata, payload) and persists itself under the
// container root as its own subdirectory.
//
// # On-Disk Layout
//
// A container rooted at R is laid out as:
//
//	R/blocks.json      manifest: {"version":1,"id":"...","codec":"raw","blocks":[...]}
//	R/<name>/          one subdirectory per block
//	  data.bin         payload (plus codec suffix, e.g. data.bin.zst)
//	  dtype.json       descriptor {"dtype":...,"shape":[...]} (.mpk for bshuf-zstd)
//	  meta.json        metadata mapping
//
// Blocks with the null element type persist a descriptor and metadata but
// no payload file.
//
// # Durability
//
// Nothing is durable without an explicit flush. A block's own files are
// written when it is created and on Block.Flush/Close; container
// membership is durable only after Container.Flush/Close. The two flushes
// are independent and non-atomic: a crash between them can leave a block's
// files on disk without a manifest entry, or the reverse. Closing a
// container or block flushes it, so the scoped form
//
//	c, err := store.Create(root)
//	...
//	defer c.Close()
//
// never forgets to persist.
//
// # Concurrency
//
// The store is single-writer, single-process by convention. There is no
// locking, no lease, and no optimistic check; concurrent use of one
// container root from multiple goroutines or processes is outside the
// contract and can corrupt data.
package store
