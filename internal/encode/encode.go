// Package encode packs a single IR instruction into the obfuscated 32-bit
// word the paired runtime expects: standard Lua's ABC/ABx/AsBx bit layout
// with opcode substitution, a deliberate B/C swap in the ABC case, and a
// whitening XOR keyed off operand A. The bit-field shape is grounded on
// lironghui233/Luago_VM's vm/instruction.go; the whitening step and the
// B/C swap are this format's own additions on top of that layout.
package encode

import (
	"fmt"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/ir"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/permute"
)

const maxArgSBx = (1<<18 - 1) >> 1 // 131071, matches MAXARG_sBx in standard Lua

// Word packs and whitens in into its 32-bit obfuscated form.
//
// Field layout, low bits first:
//
//	bits [0,5]   obfuscated 6-bit opcode index
//	bits [6,13]  A (8 bits)
//	ABC:  bits [14,22] C (9 bits), bits [23,31] B (9 bits) -- swapped
//	ABx:  bits [14,31] B (18 bits, unbiased)
//	AsBx: bits [14,31] B+131071 (18 bits, biased)
//
// The assembled word is then XOR'd with (A * 0x07654321) truncated to
// 32 bits before being returned. Operand overflow or an unrecognized
// instruction type is an invariant violation in the IR and panics.
func Word(perm *permute.Permutation, in ir.Instruction) uint32 {
	op := uint32(perm.Encode(in.Opcode))

	if in.A < 0 || in.A > 0xFF {
		panic(fmt.Sprintf("encode: operand A out of range: %d", in.A))
	}
	word := op | uint32(in.A)<<6

	switch in.Type {
	case ir.ABC:
		if in.B < 0 || in.B > 0x1FF {
			panic(fmt.Sprintf("encode: operand B out of range for ABC: %d", in.B))
		}
		if in.C < 0 || in.C > 0x1FF {
			panic(fmt.Sprintf("encode: operand C out of range for ABC: %d", in.C))
		}
		word |= uint32(in.C) << 14
		word |= uint32(in.B) << 23
	case ir.ABx:
		if in.B < 0 || in.B > 1<<18-1 {
			panic(fmt.Sprintf("encode: operand B out of range for ABx: %d", in.B))
		}
		word |= uint32(in.B) << 14
	case ir.AsBx:
		if in.B < -maxArgSBx || in.B > maxArgSBx {
			panic(fmt.Sprintf("encode: operand B out of range for AsBx: %d", in.B))
		}
		word |= uint32(in.B+maxArgSBx) << 14
	default:
		panic(fmt.Sprintf("encode: unrecognized instruction type: %v", in.Type))
	}

	whiten := uint32(in.A) * 0x07654321
	return word ^ whiten
}
