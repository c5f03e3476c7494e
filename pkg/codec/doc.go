// Package codec provides payload serialization for gersemi block storage.
//
// The codec package transforms the flat byte serialization of an array
// block into the form written to the block's backing file and back. A
// container chooses one codec at creation time and records it in its
// manifest; every block in that container goes through the same codec.
//
// # Payload Contract
//
// The raw side of every transform is always the same: n elements of
// elemSize bytes each, little-endian, row-major, with no header or padding.
// The stored side is codec-specific:
//
//	raw         identity; fixed size n*elemSize, random access defined
//	bshuf-zstd  byte-shuffle + zstd block; variable size, whole-block only
//
// # Byte Shuffle
//
// The bshuf-zstd codec first transposes the payload viewed as an n×elemSize
// byte matrix:
//
//	shuffled[j*n + i] = raw[i*elemSize + j]
//
// For numeric arrays this groups same-significance bytes together (all the
// high bytes, then the next bytes, ...), which typically vary slowly across
// neighboring elements and compress far better than interleaved element
// bytes. The shuffled stream is then compressed with zstd.
//
// # Decode Target Size
//
// Stored streams do not self-describe their decoded length. Decode takes n
// and elemSize from the caller (in practice the block's persisted shape
// and element type) and fails with *Error if the decoded byte count
// disagrees. Decoding with a mismatched n or elemSize is undefined.
//
// # Registry
//
// Codecs register under their manifest name in init; Get dispatches a
// manifest's codec string to an implementation and Default is what a
// container gets when created without an explicit choice.
//
// # Error Handling
//
// All failures are returned as *Error carrying the codec name, the
// operation, and the underlying cause, matched with errors.As.
package codec
