// Package permute builds the random opcode-to-index bijection each
// serializer instance uses to scramble emitted opcodes. Construction
// shuffles identity indices with a Fisher-Yates shuffle whose swap
// positions are drawn from the injected random source, using the same
// crypto/rand-backed draw style seen across the pack's obfuscators
// (masterqiu01-cross-file-obfuscator's rand.Int(rand.Reader, ...) seed).
package permute

import (
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/opcode"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"
)

// Permutation is a total injection from the 40 canonical opcodes to
// [0,39]. It is generated once per serializer instance and never mutated.
type Permutation struct {
	forward [opcode.Count]byte
}

// New draws a uniformly random permutation of [0,opcode.Count) from src
// via a Fisher-Yates shuffle of the identity mapping.
func New(src randsrc.Reader) *Permutation {
	var idx [opcode.Count]byte
	for i := range idx {
		idx[i] = byte(i)
	}
	for i := len(idx) - 1; i > 0; i-- {
		j := randsrc.Intn(src, i+1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return &Permutation{forward: idx}
}

// Encode returns the obfuscated 6-bit index for a canonical opcode.
// It panics if op is not one of the 40 recognized opcodes: an opcode
// outside the permutation domain is an invariant violation in the IR,
// not a recoverable condition.
func (p *Permutation) Encode(op opcode.Opcode) byte {
	if !op.Valid() {
		panic("permute: opcode out of range: " + op.String())
	}
	return p.forward[op]
}

// IsBijection reports whether every obfuscated index in [0,40) appears
// exactly once. Used by tests; production code never needs to check its
// own construction.
func (p *Permutation) IsBijection() bool {
	var seen [opcode.Count]bool
	for _, v := range p.forward {
		if int(v) < 0 || int(v) >= opcode.Count || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
