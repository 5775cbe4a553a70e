package tlblake3

import (
	"github.com/treeline-engine/treeline/tlhash"
	"github.com/zeebo/blake3"
)

// Hasher is a [tlhash.Hasher] backed by BLAKE3.
//
// This is the recommended hasher for new streams.
type Hasher struct{}

func (Hasher) Sum(in []byte) tlhash.Digest {
	return blake3.Sum256(in)
}
