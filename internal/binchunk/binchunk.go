// Package binchunk serializes an ir.Chunk tree into the deliberately
// non-standard binary this tool's paired runtime consumes. The recursive
// walk (header once, then per-prototype name/lines/code/constants/children)
// follows the shape of lironghui233/Luago_VM's binchunk.Prototype together
// with lollipopkit-lk's writer.go (bytes.Buffer accumulation instead of
// building intermediate slices per field).
package binchunk

import (
	"bytes"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/encode"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/ir"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/latin1"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/permute"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"
)

// Header bytes, written once at stream start.
const (
	versionByte    byte = 0x80
	formatByte     byte = 0x00
	endiannessByte byte = 0xAA
	intSizeByte    byte = 0x04
	sizeTSizeByte  byte = 0x04
	instrSizeByte  byte = 0x04
	numberSizeByte byte = 0x08
	numberFmtByte  byte = 0x00
)

var magic = [4]byte{0xDE, 0xAD, 0xBE, 0xEF}

// Constant tag bytes.
const (
	tagNil     byte = 0x00
	tagBoolean byte = 0x01
	tagNumber  byte = 0xCA
	tagString  byte = 0xAB
	tagUnknown byte = 0xCC
)

var junkDebugWord uint32 = 0xDEADBEEF

// Serializer emits obfuscated bytecode for a chunk tree. Each instance
// owns one randomly generated opcode permutation, drawn at construction
// time; the inverse mapping is never emitted and must be held out-of-band
// by whatever consumes the stream.
type Serializer struct {
	perm *permute.Permutation
}

// New creates a Serializer with a freshly drawn opcode permutation. src is
// the randomness seam (randsrc.Default() in production).
func New(src randsrc.Reader) *Serializer {
	return &Serializer{perm: permute.New(src)}
}

// Serialize walks c depth-first and returns the complete obfuscated
// stream: header, then the root prototype's body. Serialize panics if the
// chunk tree contains an instruction whose opcode or operands violate the
// invariants encode.Word enforces -- such a chunk is malformed IR, not a
// recoverable input.
func (s *Serializer) Serialize(c *ir.Chunk) []byte {
	var buf bytes.Buffer
	writeHeader(&buf)
	s.writeChunk(&buf, c)
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer) {
	buf.Write(magic[:])
	buf.WriteByte(versionByte)
	buf.WriteByte(formatByte)
	buf.WriteByte(endiannessByte)
	buf.WriteByte(intSizeByte)
	buf.WriteByte(sizeTSizeByte)
	buf.WriteByte(instrSizeByte)
	buf.WriteByte(numberSizeByte)
	buf.WriteByte(numberFmtByte)
}

func (s *Serializer) writeChunk(buf *bytes.Buffer, c *ir.Chunk) {
	if c.Source != "" {
		writeEncryptedString(buf, c.Source)
	} else {
		latin1.PutInt32(buf, 0)
	}

	latin1.PutInt32(buf, int32(c.LineDefined))
	latin1.PutInt32(buf, int32(c.LastLineDefined))

	buf.WriteByte(c.NumUpvalues)
	buf.WriteByte(c.NumParams)
	buf.WriteByte(c.IsVararg)
	buf.WriteByte(c.MaxStackSize)

	c.RecomputeDerivedState()

	latin1.PutInt32(buf, int32(len(c.Instructions)))
	for _, in := range c.Instructions {
		latin1.PutUint32(buf, encode.Word(s.perm, in))
	}

	latin1.PutInt32(buf, int32(len(c.Constants)))
	for _, k := range c.Constants {
		writeConstant(buf, k)
	}

	latin1.PutInt32(buf, int32(len(c.Protos)))
	for _, p := range c.Protos {
		s.writeChunk(buf, p)
	}

	latin1.PutInt32(buf, int32(junkDebugWord))
	latin1.PutInt32(buf, int32(junkDebugWord))
	latin1.PutInt32(buf, int32(junkDebugWord))
}

func writeConstant(buf *bytes.Buffer, k ir.Constant) {
	switch v := k.(type) {
	case ir.ConstNil:
		buf.WriteByte(tagNil)
	case ir.ConstBool:
		buf.WriteByte(tagBoolean)
		if v {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case ir.ConstNumber:
		buf.WriteByte(tagNumber)
		latin1.PutFloat64(buf, float64(v))
	case ir.ConstString:
		buf.WriteByte(tagString)
		writeEncryptedString(buf, string(v))
	default:
		// Unreachable given the sealed ir.Constant interface; kept as a
		// defensive fallback per the format's own open question.
		buf.WriteByte(tagUnknown)
	}
}

// writeEncryptedString emits the length-obfuscated string format: the
// Latin-1 bytes XOR'd with key = len mod 256, followed by that key byte
// acting as a self-keyed terminator.
func writeEncryptedString(buf *bytes.Buffer, s string) {
	raw := latin1.Encode(s)
	key := byte(len(raw) % 256)
	latin1.PutInt32(buf, int32(len(raw)+1))
	for _, b := range raw {
		buf.WriteByte(b ^ key)
	}
	buf.WriteByte(key)
}
