package binchunk

import (
	"fmt"
	"io"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/ir"
)

// Disassemble prints the pre-obfuscation instruction stream of c and its
// children: opcode mnemonic and operand slots, one instruction per line.
// It never touches the obfuscated wire format and carries no byte-exact
// contract of its own -- it exists so a chunk can be inspected before
// serialization, the same role xirelogy-go-flux's Disassembler plays next
// to its Chunk type.
func Disassemble(w io.Writer, c *ir.Chunk) error {
	return disassemble(w, c, "")
}

func disassemble(w io.Writer, c *ir.Chunk, indent string) error {
	name := c.Source
	if name == "" {
		name = "?"
	}
	if _, err := fmt.Fprintf(w, "%sfunction <%s:%d,%d>\n", indent, name, c.LineDefined, c.LastLineDefined); err != nil {
		return err
	}
	for i, in := range c.Instructions {
		var operands string
		switch in.Type {
		case ir.ABC:
			operands = fmt.Sprintf("A=%d B=%d C=%d", in.A, in.B, in.C)
		case ir.ABx:
			operands = fmt.Sprintf("A=%d Bx=%d", in.A, in.B)
		case ir.AsBx:
			operands = fmt.Sprintf("A=%d sBx=%d", in.A, in.B)
		}
		if _, err := fmt.Fprintf(w, "%s  [%d] %-10s %s\n", indent, i, in.Opcode, operands); err != nil {
			return err
		}
	}
	for _, p := range c.Protos {
		if err := disassemble(w, p, indent+"  "); err != nil {
			return err
		}
	}
	return nil
}
