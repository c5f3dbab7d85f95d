package encode

import (
	"math/rand"
	"testing"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/ir"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/opcode"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/permute"
)

type seededReader struct{ r *rand.Rand }

func (s *seededReader) Read(p []byte) (int, error) { return s.r.Read(p) }

func newPerm(seed int64) *permute.Permutation {
	return permute.New(&seededReader{rand.New(rand.NewSource(seed))})
}

// TestMoveInstruction is spec scenario 2: MOVE A=1, B=2, C=0, ABC type.
func TestMoveInstruction(t *testing.T) {
	perm := newPerm(7)
	k := uint32(perm.Encode(opcode.MOVE))

	in := ir.Instruction{Type: ir.ABC, Opcode: opcode.MOVE, A: 1, B: 2, C: 0}
	got := Word(perm, in)

	want := (k | (1 << 6) | (0 << 14) | (2 << 23)) ^ (1 * 0x07654321)
	if got != want {
		t.Fatalf("Word() = %#x, want %#x", got, want)
	}
}

func TestWhiteningRecoversOpcodeAndA(t *testing.T) {
	perm := newPerm(3)
	in := ir.Instruction{Type: ir.ABC, Opcode: opcode.ADD, A: 5, B: 1, C: 2}
	word := Word(perm, in)

	unwhitened := word ^ (uint32(in.A) * 0x07654321)
	if gotOp := unwhitened & 0x3F; gotOp != uint32(perm.Encode(opcode.ADD)) {
		t.Fatalf("low 6 bits = %d, want permuted opcode %d", gotOp, perm.Encode(opcode.ADD))
	}
	if gotA := (unwhitened >> 6) & 0xFF; gotA != uint32(in.A) {
		t.Fatalf("bits [6,13] = %d, want A=%d", gotA, in.A)
	}
}

func TestAsBxBoundaries(t *testing.T) {
	perm := newPerm(9)
	cases := []struct {
		b        int
		wantBits uint32
	}{
		{-131071, 0},
		{131071, 262142},
		{0, 131071},
	}
	for _, c := range cases {
		in := ir.Instruction{Type: ir.AsBx, Opcode: opcode.JMP, A: 0, B: c.b}
		word := Word(perm, in)
		unwhitened := word ^ (uint32(in.A) * 0x07654321)
		gotBits := (unwhitened >> 14) & 0x3FFFF
		if gotBits != c.wantBits {
			t.Fatalf("B=%d: field bits = %d, want %d", c.b, gotBits, c.wantBits)
		}
	}
}

func TestABCFieldSwap(t *testing.T) {
	perm := newPerm(11)
	in := ir.Instruction{Type: ir.ABC, Opcode: opcode.SETTABLE, A: 0, B: 200, C: 5}
	word := Word(perm, in)
	unwhitened := word ^ (uint32(in.A) * 0x07654321)

	gotC := (unwhitened >> 14) & 0x1FF
	gotB := (unwhitened >> 23) & 0x1FF
	if gotC != uint32(in.C) {
		t.Fatalf("bits [14,22] = %d, want C=%d", gotC, in.C)
	}
	if gotB != uint32(in.B) {
		t.Fatalf("bits [23,31] = %d, want B=%d", gotB, in.B)
	}
}

func TestOperandOverflowPanics(t *testing.T) {
	perm := newPerm(5)
	cases := []ir.Instruction{
		{Type: ir.ABC, Opcode: opcode.ADD, A: 256, B: 0, C: 0},
		{Type: ir.ABC, Opcode: opcode.ADD, A: 0, B: 512, C: 0},
		{Type: ir.ABC, Opcode: opcode.ADD, A: 0, B: 0, C: 512},
		{Type: ir.ABx, Opcode: opcode.LOADK, A: 0, B: 1 << 18},
		{Type: ir.AsBx, Opcode: opcode.JMP, A: 0, B: 131072},
	}
	for i, in := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("case %d: expected panic for operand overflow", i)
				}
			}()
			Word(perm, in)
		}()
	}
}

func TestUnrecognizedOpcodePanics(t *testing.T) {
	perm := newPerm(5)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for opcode outside permutation domain")
		}
	}()
	Word(perm, ir.Instruction{Type: ir.ABC, Opcode: opcode.Opcode(opcode.Count + 1)})
}
