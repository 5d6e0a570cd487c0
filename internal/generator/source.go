package generator

import (
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"
)

// Source supplies the uniform random draws the generator consumes.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform integer in [0, n). n must be positive.
	IntN(n int) int
	// Float64 returns a uniform float in [0.0, 1.0).
	Float64() float64
}

type globalSource struct{}

func (globalSource) IntN(n int) int    { return rand.IntN(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// GlobalSource returns a Source backed by the math/rand/v2 top-level
// functions. It is safe for concurrent use.
func GlobalSource() Source {
	return globalSource{}
}

// NewSeededSource returns a deterministic Source. Equal seeds produce equal
// draw sequences. The seed is hashed with BLAKE2b-256 into a ChaCha8 key, so
// any string is a usable seed. The returned Source is not safe for
// concurrent use.
func NewSeededSource(seed string) Source {
	key := blake2b.Sum256([]byte(seed))
	return rand.New(rand.NewChaCha8(key))
}
