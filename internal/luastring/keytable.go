package luastring

import "github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"

// defaultCeiling is used when a Config leaves DecryptTableLen unset.
const defaultCeiling = 32

// generateKeyTable draws a fresh key table of length
// min(requestedLen, ceiling), floored at 1, from src.
func generateKeyTable(src randsrc.Reader, requestedLen, ceiling int) []byte {
	n := requestedLen
	if ceiling > 0 && n > ceiling {
		n = ceiling
	}
	if n < 1 {
		n = 1
	}
	return randsrc.Bytes(src, n)
}

// xorBytes produces len(payload) bytes where output[i] = payload[i] XOR
// key[i % len(key)]. Encryption and decryption are the same operation.
func xorBytes(payload, key []byte) []byte {
	out := make([]byte, len(payload))
	for i, b := range payload {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}
