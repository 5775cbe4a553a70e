package tltest

import (
	"crypto/sha256"
	"math/rand/v2"
	"testing"
)

// NewRand returns a [*rand.Rand] seeded from the test name, so that
// randomized tests are reproducible run to run but still diverge from
// each other. Sha256 of the test name happens to be exactly the chacha8
// seed size, and it means seeds are never limited by test name length.
func NewRand(t *testing.T) *rand.Rand {
	seed := sha256.Sum256([]byte(t.Name()))
	return rand.New(rand.NewChaCha8(seed))
}

// RandomDataForTest returns sz bytes of pseudorandom data, seeded the
// same way as [NewRand]. Useful for content where slices taken from
// different offsets must be very unlikely to match.
func RandomDataForTest(t *testing.T, sz int) []byte {
	seed := sha256.Sum256([]byte(t.Name()))
	chacha := rand.NewChaCha8(seed)

	out := make([]byte, sz)
	if _, err := chacha.Read(out); err != nil {
		panic(err)
	}
	return out
}
