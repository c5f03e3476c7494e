//go:build bench
// +build bench

package codec

import (
	"encoding/binary"
	"math"
	"testing"
)

func benchPayload(n, elemSize int) []byte {
	buf := make([]byte, n*elemSize)
	for i := 0; i < n; i++ {
		switch elemSize {
		case 8:
			binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(float64(i)*0.25))
		case 4:
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(i))
		default:
			for j := 0; j < elemSize; j++ {
				buf[i*elemSize+j] = byte(i + j)
			}
		}
	}
	return buf
}

func BenchmarkShuffledCompressed_Encode(b *testing.B) {
	benchmarks := []struct {
		name     string
		n        int
		elemSize int
	}{
		{name: "1k_f8", n: 1024, elemSize: 8},
		{name: "64k_f8", n: 64 * 1024, elemSize: 8},
		{name: "64k_u4", n: 64 * 1024, elemSize: 4},
		{name: "1m_f8", n: 1024 * 1024, elemSize: 8},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			payload := benchPayload(bm.n, bm.elemSize)
			b.SetBytes(int64(len(payload)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := (ShuffledCompressed{}).Encode(payload, bm.n, bm.elemSize); err != nil {
					b.Fatalf("Encode failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkShuffledCompressed_Decode(b *testing.B) {
	benchmarks := []struct {
		name     string
		n        int
		elemSize int
	}{
		{name: "64k_f8", n: 64 * 1024, elemSize: 8},
		{name: "1m_f8", n: 1024 * 1024, elemSize: 8},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			payload := benchPayload(bm.n, bm.elemSize)
			stored, err := (ShuffledCompressed{}).Encode(payload, bm.n, bm.elemSize)
			if err != nil {
				b.Fatalf("Encode failed: %v", err)
			}
			b.SetBytes(int64(len(payload)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := (ShuffledCompressed{}).Decode(stored, bm.n, bm.elemSize); err != nil {
					b.Fatalf("Decode failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkShuffle(b *testing.B) {
	payload := benchPayload(1024*1024, 8)
	b.SetBytes(int64(len(payload)))
	for i := 0; i < b.N; i++ {
		shuffle(payload, 1024*1024, 8)
	}
}
