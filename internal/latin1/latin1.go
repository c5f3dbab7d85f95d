// Package latin1 holds the encoding utilities the bytecode serializer
// depends on: byte-for-byte string encoding
// (Lua strings are byte sequences, not Unicode text) and little-endian
// integer/float serialization, grounded on the write-primitive shape of
// lollipopkit-lk's binchunk writer (int32ToBytes/float64ToBytes) but
// aimed at a bytes.Buffer instead of building intermediate slices.
package latin1

import (
	"bytes"
	"math"
)

// Encode returns s as raw single-byte-per-character data. Go string
// indexing is already byte-oriented, so this is an identity conversion
// that documents the assumption at call sites: s must not contain
// characters outside 0-255.
func Encode(s string) []byte {
	b := make([]byte, len(s))
	copy(b, s)
	return b
}

// PutUint32 appends v to buf as 4 little-endian bytes.
func PutUint32(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 24))
}

// PutInt32 appends v to buf as a 4-byte little-endian two's-complement int.
func PutInt32(buf *bytes.Buffer, v int32) {
	PutUint32(buf, uint32(v))
}

// PutFloat64 appends v to buf as 8 little-endian bytes, IEEE-754 double.
func PutFloat64(buf *bytes.Buffer, v float64) {
	bits := math.Float64bits(v)
	for i := 0; i < 8; i++ {
		buf.WriteByte(byte(bits >> (8 * uint(i))))
	}
}
