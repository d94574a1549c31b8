// Package publicid generates the short human-facing identifiers printed
// on proposals, e.g. "#ABC123".
package publicid

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"loan-marketplace/internal/pkg/apperrors"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength = 6
	marker   = "#"

	// Collisions on a 36^6 space are astronomically unlikely; the bound
	// exists so a broken uniqueness check cannot spin forever. The
	// storage layer carries a UNIQUE constraint as the real backstop.
	maxAttempts = 10
)

var pattern = regexp.MustCompile(`^#[A-Z0-9]{6}$`)

// RandomSource yields uniform values in [0, max). The default uses
// crypto/rand; tests substitute a deterministic source.
type RandomSource interface {
	Intn(max int) (int, error)
}

type cryptoSource struct{}

func (cryptoSource) Intn(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

type Generator struct {
	source RandomSource
}

func NewGenerator() *Generator {
	return &Generator{source: cryptoSource{}}
}

func NewGeneratorWithSource(source RandomSource) *Generator {
	return &Generator{source: source}
}

// Generate returns a fresh id in the form "#" + 6 chars of [A-Z0-9].
func (g *Generator) Generate() (string, error) {
	id := make([]byte, 0, idLength+1)
	id = append(id, marker...)
	for i := 0; i < idLength; i++ {
		idx, err := g.source.Intn(len(alphabet))
		if err != nil {
			return "", fmt.Errorf("%w: random source failed: %w", apperrors.ErrInternalServer, err)
		}
		id = append(id, alphabet[idx])
	}
	return string(id), nil
}

// GenerateUnique draws candidates until exists reports one as unused,
// giving up after the retry budget.
func (g *Generator) GenerateUnique(exists func(candidate string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := g.Generate()
		if err != nil {
			return "", err
		}
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: could not generate a unique public id in %d attempts", apperrors.ErrResourceExhausted, maxAttempts)
}

// Valid reports whether s is a well-formed public id.
func Valid(s string) bool {
	return pattern.MatchString(s)
}
