package luastring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"
)

// importantKeywords triggers the ImportantStrings stage, checked
// case-insensitively against a literal's decoded content.
var importantKeywords = []string{"http", "function", "metatable", "local"}

// Config controls which source rewriter stages run, mirroring the flat
// bool/int Config shape of masterqiu01-cross-file-obfuscator's types.go.
type Config struct {
	// EncryptStrings, if true, runs the EncryptAllStrings stage: one
	// shared decryptor sized to the longest literal, applied to every
	// match.
	EncryptStrings bool

	// EncryptImportantStrings, if true, runs the ImportantStrings stage
	// independently of EncryptStrings: a fresh decryptor per literal
	// whose content contains an important keyword.
	EncryptImportantStrings bool

	// DecryptTableLen upper-bounds every generated key table's length.
	// Zero or negative means the default ceiling of 32.
	DecryptTableLen int
}

func (c Config) ceiling() int {
	if c.DecryptTableLen <= 0 {
		return defaultCeiling
	}
	return c.DecryptTableLen
}

// Stats is a bookkeeping snapshot of one Rewrite call: how many literals
// were seen and how many were encrypted by each stage. It has no bearing
// on the emitted source and exists purely for caller-side reporting,
// mirroring masterqiu01-cross-file-obfuscator's Statistics/GetStatistics.
type Stats struct {
	LiteralsScanned    int
	EncryptedAll       int
	EncryptedMarked    int
	EncryptedImportant int
	DecryptorsEmitted  int
	KeyBytesDrawn      int
}

// Rewriter applies a Config's stages to Lua source text, replacing
// selected string literals with inline decryptor expressions.
type Rewriter struct {
	cfg    Config
	src    randsrc.Reader
	stats  Stats
	prefix string
	serial int
}

// NewRewriter builds a Rewriter. src is the randomness seam used for both
// key-table generation and decryptor naming (randsrc.Default() in
// production).
func NewRewriter(cfg Config, src randsrc.Reader) *Rewriter {
	prefix := fmt.Sprintf("%x", randsrc.Bytes(src, 4))
	return &Rewriter{cfg: cfg, src: src, prefix: prefix}
}

// Stats returns the bookkeeping for the most recent Rewrite call.
func (r *Rewriter) Stats() Stats {
	return r.stats
}

type replacement struct {
	start, end int
	text       string
}

// Rewrite scans source for string literals and replaces the ones selected
// by the configured stages with inline decryptor expressions. Non-literal
// characters, and literals no stage selects, are returned verbatim. It
// fails only when a quoted literal contains a malformed escape sequence.
func (r *Rewriter) Rewrite(source string) (string, error) {
	r.stats = Stats{}

	matches, err := Scan(source)
	if err != nil {
		return "", err
	}
	r.stats.LiteralsScanned = len(matches)

	var repls []replacement
	scheduled := make([]bool, len(matches))

	switch {
	case r.cfg.EncryptStrings:
		r.encryptAll(matches, scheduled, &repls)
	default:
		r.encryptMarked(matches, scheduled, &repls)
	}

	if r.cfg.EncryptImportantStrings {
		r.encryptImportant(matches, scheduled, &repls)
	}

	return applyReplacements(source, repls), nil
}

func (r *Rewriter) encryptAll(matches []Match, scheduled []bool, repls *[]replacement) {
	if len(matches) == 0 {
		return
	}
	maxLen := 0
	for _, m := range matches {
		if len(m.Decoded) > maxLen {
			maxLen = len(m.Decoded)
		}
	}
	key := generateKeyTable(r.src, maxLen, r.cfg.ceiling())
	name := r.nextName()
	r.stats.DecryptorsEmitted++
	r.stats.KeyBytesDrawn += len(key)

	for i, m := range matches {
		cipher := xorBytes(m.Decoded, key)
		*repls = append(*repls, replacement{m.Start, m.End, emitDecryptor(name, key, cipher)})
		scheduled[i] = true
		r.stats.EncryptedAll++
	}
}

func (r *Rewriter) encryptMarked(matches []Match, scheduled []bool, repls *[]replacement) {
	for i, m := range matches {
		if !m.Marked {
			continue
		}
		key := generateKeyTable(r.src, len(m.Decoded), r.cfg.ceiling())
		cipher := xorBytes(m.Decoded, key)
		name := r.nextName()
		*repls = append(*repls, replacement{m.Start, m.End, emitDecryptor(name, key, cipher)})
		scheduled[i] = true
		r.stats.EncryptedMarked++
		r.stats.DecryptorsEmitted++
		r.stats.KeyBytesDrawn += len(key)
	}
}

func (r *Rewriter) encryptImportant(matches []Match, scheduled []bool, repls *[]replacement) {
	for i, m := range matches {
		if scheduled[i] || !isImportant(m.Decoded) {
			continue
		}
		key := generateKeyTable(r.src, len(m.Decoded), r.cfg.ceiling())
		cipher := xorBytes(m.Decoded, key)
		name := r.nextName()
		*repls = append(*repls, replacement{m.Start, m.End, emitDecryptor(name, key, cipher)})
		scheduled[i] = true
		r.stats.EncryptedImportant++
		r.stats.DecryptorsEmitted++
		r.stats.KeyBytesDrawn += len(key)
	}
}

func isImportant(decoded []byte) bool {
	lower := strings.ToLower(string(decoded))
	for _, kw := range importantKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (r *Rewriter) nextName() string {
	r.serial++
	return fmt.Sprintf("dec_%s_%d", r.prefix, r.serial)
}

// applyReplacements splices repls into source right-to-left: sorted by
// descending start, each applied in turn, so earlier (lower-index) ranges
// stay valid across the whole pass. A replacement whose range overlaps one
// already applied farther right is skipped silently -- the only case the
// defensive bounds check needs to catch, since descending order otherwise
// guarantees every remaining range is untouched.
func applyReplacements(source string, repls []replacement) string {
	if len(repls) == 0 {
		return source
	}
	sort.Slice(repls, func(i, j int) bool { return repls[i].start > repls[j].start })

	var tail []string
	cursor := len(source)
	for _, rep := range repls {
		if rep.start < 0 || rep.start > rep.end || rep.end > cursor {
			continue
		}
		tail = append(tail, source[rep.end:cursor])
		tail = append(tail, rep.text)
		cursor = rep.start
	}

	var b strings.Builder
	b.WriteString(source[:cursor])
	for i := len(tail) - 1; i >= 0; i-- {
		b.WriteString(tail[i])
	}
	return b.String()
}
