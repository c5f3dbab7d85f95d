package ir

import (
	"testing"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/opcode"
)

func TestRecomputeDerivedStateGrowsMaxStack(t *testing.T) {
	c := &Chunk{
		MaxStackSize: 2,
		Instructions: []Instruction{
			{Type: ABC, Opcode: opcode.ADD, A: 0, B: 5, C: 9},
		},
	}
	c.RecomputeDerivedState()
	if c.MaxStackSize != 10 {
		t.Fatalf("MaxStackSize = %d, want 10 (highest register 9 + 1)", c.MaxStackSize)
	}
}

func TestRecomputeDerivedStateIgnoresABxOperandAsRegister(t *testing.T) {
	c := &Chunk{
		MaxStackSize: 1,
		Instructions: []Instruction{
			{Type: ABx, Opcode: opcode.LOADK, A: 0, B: 200000},
		},
	}
	c.RecomputeDerivedState()
	if c.MaxStackSize != 1 {
		t.Fatalf("MaxStackSize = %d, want unchanged 1 (ABx's B is a constant index, not a register)", c.MaxStackSize)
	}
}

func TestConstantKindsAreSealed(t *testing.T) {
	var consts = []Constant{
		ConstNil{},
		ConstBool(true),
		ConstNumber(3.5),
		ConstString("x"),
	}
	for _, c := range consts {
		c.isConstant() // compiles only if each satisfies Constant
	}
}

func TestInstructionTypeString(t *testing.T) {
	cases := map[InstructionType]string{ABC: "ABC", ABx: "ABx", AsBx: "AsBx", InstructionType(99): "?"}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
