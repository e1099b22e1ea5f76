// Package token produces candidate short tokens.
package token

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet holds the 62 symbols a token is drawn from, case-sensitive.
	Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// DefaultLength gives a keyspace of 62^6, about 5.68e10 tokens.
	DefaultLength = 6
)

// Generator draws random tokens. It keeps no state between calls, so
// uniqueness is the allocator's job, not the generator's.
type Generator struct {
	length int
}

// NewGenerator creates a Generator producing tokens of the given length.
// A non-positive length falls back to DefaultLength.
func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{length: length}
}

// Generate returns a fresh candidate token.
func (g *Generator) Generate() (string, error) {
	return gonanoid.Generate(Alphabet, g.length)
}
