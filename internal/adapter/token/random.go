// Package token generates the shared secrets the component's control socket
// checks on every request.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// DefaultBytes is the number of random bytes in a token.
const DefaultBytes = 24

// RandomGenerator produces hex tokens from crypto/rand.
type RandomGenerator struct {
	n int
}

// NewRandomGenerator creates a generator for DefaultBytes-byte tokens.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{n: DefaultBytes}
}

// newSizedGenerator creates a generator for n-byte tokens.
func newSizedGenerator(n int) (*RandomGenerator, error) {
	if n < 16 {
		return nil, fmt.Errorf("token size %d is too small", n)
	}
	return &RandomGenerator{n: n}, nil
}

// Generate returns a token of 2*n hex characters.
func (g *RandomGenerator) Generate() (string, error) {
	b := make([]byte, g.n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
