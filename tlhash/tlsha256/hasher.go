package tlsha256

import (
	"crypto/sha256"

	"github.com/treeline-engine/treeline/tlhash"
)

// Hasher is a [tlhash.Hasher] backed by SHA256.
type Hasher struct{}

func (Hasher) Sum(in []byte) tlhash.Digest {
	return sha256.Sum256(in)
}
