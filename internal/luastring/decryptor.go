package luastring

import (
	"fmt"
	"strings"
)

// xorOpTemplate is the standard iterative bitwise-XOR over arithmetic,
// compatible with Lua 5.1 without the `bit` library: it walks both
// operands in binary one bit at a time via repeated halving.
const xorOpTemplate = `local function %s(a,b) local p,c=1,0; while a>0 or b>0 do local ra,rb=a%%2,b%%2; if ra~=rb then c=c+p end; a,b,p=(a-ra)/2,(b-rb)/2,p*2 end; return c end`

const decryptorTemplate = `--[[%s]]((function(data) %s; local key_str="%s"; local key_len=%d; local res={}; local byte=string.byte; local char=string.char; local len=#data; for i=1,len do res[i]=char(%s(byte(data,i), byte(key_str,(i-1)%%key_len+1))); end; return table.concat(res); end)("%s"))`

// decimalEscape renders data as a run of three-digit zero-padded decimal
// escapes, e.g. {0x68, 0x69} -> `\104\105`.
func decimalEscape(data []byte) string {
	var b strings.Builder
	for _, c := range data {
		fmt.Fprintf(&b, `\%03d`, c)
	}
	return b.String()
}

// emitDecryptor renders a self-contained Lua expression that reconstructs
// the original bytes from cipher (encrypted with key via xorBytes) when
// evaluated. name labels the decryptor in a leading comment only;
// consumers must not depend on it.
func emitDecryptor(name string, key, cipher []byte) string {
	const xorFn = "xor_op"
	body := fmt.Sprintf(xorOpTemplate, xorFn)
	return fmt.Sprintf(decryptorTemplate,
		name, body, decimalEscape(key), len(key), xorFn, decimalEscape(cipher))
}
