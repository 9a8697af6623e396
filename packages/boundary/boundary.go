package boundary

import (
	"encoding/binary"
	"math/rand"

	"github.com/google/uuid"
)

const (
	// Length is the number of characters in every generated token.
	Length = 30

	// Alphabet holds the characters a token is drawn from. All of them are
	// bchars under RFC 2046 and none needs escaping inside a quoted string.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_."
)

// Generator produces boundary tokens. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator that reads from src.
func New(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewSeeded creates a Generator whose sequence is fixed by seed.
func NewSeeded(seed int64) *Generator {
	return New(rand.NewSource(seed))
}

// NewRandom creates a Generator seeded from a fresh random UUID.
func NewRandom() *Generator {
	id := uuid.New()
	seed := binary.BigEndian.Uint64(id[:8]) ^ binary.BigEndian.Uint64(id[8:])
	return NewSeeded(int64(seed))
}

// Next returns the next token in the sequence.
func (g *Generator) Next() string {
	b := make([]byte, Length)
	for i := range b {
		b[i] = Alphabet[g.rng.Intn(len(Alphabet))]
	}
	return string(b)
}

// Valid reports whether s could have been produced by a Generator.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !inAlphabet(s[i]) {
			return false
		}
	}
	return true
}

func inAlphabet(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '_', c == '.':
		return true
	}
	return false
}
