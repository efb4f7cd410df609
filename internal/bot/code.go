package bot

import (
	"fmt"
	"math/rand/v2"
)

// codeAlphabet is ASCII letters followed by digits.
const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// codeLength is the fixed size of issued verification codes.
const codeLength = 16

// generateCode returns a random code of the requested length sampled without
// replacement from codeAlphabet, so no character repeats. Lengths above the
// alphabet size cannot be satisfied.
func generateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("bot: code length must be positive, got %d", length)
	}
	if length > len(codeAlphabet) {
		return "", fmt.Errorf("bot: code length %d exceeds alphabet size %d", length, len(codeAlphabet))
	}

	perm := rand.Perm(len(codeAlphabet))
	code := make([]byte, length)
	for i := range code {
		code[i] = codeAlphabet[perm[i]]
	}
	return string(code), nil
}
