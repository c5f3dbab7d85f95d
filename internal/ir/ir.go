// Package ir defines the in-memory chunk tree the serializer consumes.
// It is the input contract from the external parser (out of scope for
// this module): by the time a *Chunk reaches the serializer, opcodes and
// operand slots are already computed. The field set mirrors the teacher's
// binchunk.Prototype (lironghui233/Luago_VM), trimmed to what a producer
// external to this module is expected to supply.
package ir

import "github.com/1NFERNO-HUB/1NFERNO-OBF/internal/opcode"

// InstructionType selects which operand layout an Instruction uses.
type InstructionType int

const (
	ABC InstructionType = iota
	ABx
	AsBx
)

func (t InstructionType) String() string {
	switch t {
	case ABC:
		return "ABC"
	case ABx:
		return "ABx"
	case AsBx:
		return "AsBx"
	default:
		return "?"
	}
}

// Instruction is one virtual-machine operation with its operand slots.
// Width invariants (A in [0,255], etc.) are enforced by the encoder at
// emission time, not here: the IR is assumed already validated by the
// parser per the external input contract.
type Instruction struct {
	Type   InstructionType
	Opcode opcode.Opcode
	A      int
	B      int
	C      int
}

// RecomputeDerivedState is a hook for instructions with no state of their
// own to derive; present so the serializer's per-instruction contract
// (see the Chunk hook below) has something to call uniformly.
func (Instruction) RecomputeDerivedState() {}

// Constant is a sealed union over the four Lua constant kinds a chunk may
// reference. Concrete types are ConstNil, ConstBool, ConstNumber and
// ConstString.
type Constant interface {
	isConstant()
}

type ConstNil struct{}

func (ConstNil) isConstant() {}

type ConstBool bool

func (ConstBool) isConstant() {}

type ConstNumber float64

func (ConstNumber) isConstant() {}

type ConstString string

func (ConstString) isConstant() {}

// Chunk is one function prototype: its own code and constants, plus any
// nested prototypes it defines.
type Chunk struct {
	Source          string
	LineDefined     int
	LastLineDefined int
	NumUpvalues     byte
	NumParams       byte
	IsVararg        byte
	MaxStackSize    byte
	Instructions    []Instruction
	Constants       []Constant
	Protos          []*Chunk
}

// RecomputeDerivedState refreshes the one piece of chunk state that is
// implied by, but may be stale relative to, the instruction stream: the
// maximum stack size. The serializer invokes this exactly once per chunk,
// immediately before emitting its instruction and constant tables.
func (c *Chunk) RecomputeDerivedState() {
	max := int(c.MaxStackSize)
	for _, in := range c.Instructions {
		if r := highestRegister(in) + 1; r > max {
			max = r
		}
		in.RecomputeDerivedState()
	}
	if max > 255 {
		max = 255
	}
	c.MaxStackSize = byte(max)
}

func highestRegister(in Instruction) int {
	hi := in.A
	switch in.Type {
	case ABC:
		if in.B > hi {
			hi = in.B
		}
		if in.C > hi {
			hi = in.C
		}
	case ABx, AsBx:
		// B is a constant/jump index here, not a register.
	}
	return hi
}
