package core

import "math/rand/v2"

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultCodeLength is the number of letters in a room code.
const DefaultCodeLength = 4

// GenerateCode returns a random uppercase code of the given length for which taken
// reports false. A nil taken accepts the first draw.
func GenerateCode(length int, taken func(code string) bool) string {
	if length < 1 {
		length = 1
	}
	buf := make([]byte, length)
	for {
		for i := range buf {
			buf[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
		}
		code := string(buf)
		if taken == nil || !taken(code) {
			return code
		}
	}
}
