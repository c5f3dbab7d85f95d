package luastring

import (
	"fmt"
	"strconv"
)

var shortEscapes = map[byte]byte{
	'a': 0x07,
	'b': 0x08,
	'f': 0x0C,
	'n': 0x0A,
	'r': 0x0D,
	't': 0x09,
	'v': 0x0B,
}

// UnescapeLuaString decodes the content of a quoted Lua string literal
// (quotes already stripped) into raw bytes. It is the left inverse of a
// canonical Lua-escape encoder over the byte range 0-255: \a \b \f \n \r
// \t \v decode to their control-character values, a backslash followed by
// any non-digit emits that byte literally, and a backslash followed by 1
// to 3 decimal digits emits the numeric byte value (0-255), taking the
// longest run of at most 3 digits. It returns an error for a numeric
// escape above 255, a trailing lone backslash, or any other malformed
// sequence.
func UnescapeLuaString(content string) ([]byte, error) {
	out := make([]byte, 0, len(content))
	i := 0
	for i < len(content) {
		c := content[i]
		if c != '\\' {
			out = append(out, c)
			i++
			continue
		}
		i++
		if i >= len(content) {
			return nil, fmt.Errorf("luastring: unescaped trailing backslash at offset %d", i-1)
		}
		e := content[i]
		if decoded, ok := shortEscapes[e]; ok {
			out = append(out, decoded)
			i++
			continue
		}
		if e >= '0' && e <= '9' {
			j := i
			for j < len(content) && j < i+3 && content[j] >= '0' && content[j] <= '9' {
				j++
			}
			digits := content[i:j]
			n, err := strconv.Atoi(digits)
			if err != nil || n > 255 {
				return nil, fmt.Errorf("luastring: invalid numeric escape \\%s at offset %d", digits, i-1)
			}
			out = append(out, byte(n))
			i = j
			continue
		}
		out = append(out, e)
		i++
	}
	return out, nil
}
