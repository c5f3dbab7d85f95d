// Package luastring implements the source-level constant-encryption pass:
// literal extraction, escape decoding, key-table generation, XOR
// encryption, and inline decryptor emission. The regex-driven scan for
// quoted literals follows the match-and-replace idiom in
// BillioncodesInc-ginx1's js_obfuscator.go (ReplaceAllStringFunc over a
// compiled-once pattern); Go's RE2 engine has no backreferences, so the
// long-bracket `[==[ ... ]==]` form -- whose close must repeat the open's
// `=` count -- is matched by a small hand-rolled scan instead of a regex
// alternative, rather than faked with an unsupported backreference.
package luastring

import (
	"regexp"
	"sort"
	"strings"
)

// quotedRe matches single- or double-quoted Lua string literals, escaped
// pairs included, compiled once and reused across calls to Scan.
var quotedRe = regexp.MustCompile(`(?s)'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"`)

const sentinel = "[STR_ENCRYPT]"

// Match is one scanned string literal.
type Match struct {
	Start, End int    // byte offsets into the source, End exclusive
	Decoded    []byte // decoded content, sentinel stripped if Marked
	Marked     bool   // decoded content began with the sentinel
}

type rawMatch struct {
	start, end int
	long       bool
	level      int
}

// Scan finds every quoted and long-bracketed string literal in source, in
// left-to-right order, decodes each one, and classifies sentinel-prefixed
// literals as explicitly marked. It returns an error only when a quoted
// literal contains a malformed escape sequence.
func Scan(source string) ([]Match, error) {
	raw := rawMatches(source)

	matches := make([]Match, 0, len(raw))
	for _, rm := range raw {
		literal := source[rm.start:rm.end]

		var decoded []byte
		var err error
		if rm.long {
			decoded = decodeLongBracket(literal, rm.level)
		} else {
			decoded, err = UnescapeLuaString(literal[1 : len(literal)-1])
			if err != nil {
				return nil, err
			}
		}

		marked := false
		if strings.HasPrefix(string(decoded), sentinel) {
			marked = true
			decoded = decoded[len(sentinel):]
		}

		matches = append(matches, Match{Start: rm.start, End: rm.end, Decoded: decoded, Marked: marked})
	}
	return matches, nil
}

func rawMatches(source string) []rawMatch {
	var raw []rawMatch
	for _, loc := range quotedRe.FindAllStringIndex(source, -1) {
		raw = append(raw, rawMatch{start: loc[0], end: loc[1]})
	}
	for from := 0; from < len(source); {
		start, end, level, ok := findLongBracket(source, from)
		if !ok {
			break
		}
		raw = append(raw, rawMatch{start: start, end: end, long: true, level: level})
		from = end
	}

	sort.Slice(raw, func(i, j int) bool {
		if raw[i].start != raw[j].start {
			return raw[i].start < raw[j].start
		}
		// Longer (enclosing) match first, so the sweep below drops
		// anything nested inside it rather than the reverse.
		return (raw[i].end - raw[i].start) > (raw[j].end - raw[j].start)
	})

	out := raw[:0]
	lastEnd := 0
	for _, rm := range raw {
		if rm.start < lastEnd {
			continue // nested inside an already-accepted literal
		}
		out = append(out, rm)
		lastEnd = rm.end
	}
	return out
}

// findLongBracket locates the next long-bracket literal at or after from:
// an opening `[`, zero or more `=` (the level), another `[`, content, then
// a closing `]` + the same number of `=` + `]`. A `[`/`=`*/`[` sequence
// with no matching close is not a literal and is skipped.
func findLongBracket(source string, from int) (start, end, level int, ok bool) {
	for i := from; i < len(source); i++ {
		if source[i] != '[' {
			continue
		}
		j := i + 1
		lvl := 0
		for j < len(source) && source[j] == '=' {
			lvl++
			j++
		}
		if j >= len(source) || source[j] != '[' {
			continue
		}
		contentStart := j + 1
		closer := "]" + strings.Repeat("=", lvl) + "]"
		idx := strings.Index(source[contentStart:], closer)
		if idx < 0 {
			continue
		}
		return i, contentStart + idx + len(closer), lvl, true
	}
	return 0, 0, 0, false
}

// decodeLongBracket returns the literal's content verbatim under Latin-1:
// long-bracket bodies are never escape-decoded.
func decodeLongBracket(literal string, level int) []byte {
	open := 2 + level
	content := literal[open : len(literal)-open]
	out := make([]byte, len(content))
	copy(out, content)
	return out
}
