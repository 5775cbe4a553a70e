package treelinetest

import (
	"encoding/binary"

	"github.com/treeline-engine/treeline"
)

// CounterBytes returns n bytes of a 4-byte little-endian incrementing
// counter, starting at 1. For example, 10 bytes come out as
// [1, 0, 0, 0, 2, 0, 0, 0, 3, 0].
//
// The pattern makes it unlikely that a bug like swapping or duplicating
// a chunk could still pass a round-trip comparison, and it keeps
// encoded streams easy to eyeball in a hex dump.
func CounterBytes(n int) []byte {
	out := make([]byte, 0, n)

	var word [4]byte
	for i := uint32(1); len(out) < n; i++ {
		binary.LittleEndian.PutUint32(word[:], i)
		out = append(out, word[:min(4, n-len(out))]...)
	}
	return out
}

// Sizes is the set of content lengths used across the decoder test
// suite: empty, single-byte, chunk boundaries and their neighbors, and
// multi-chunk counts that produce both balanced and lopsided trees.
var Sizes = []int{
	0,
	1,
	10,
	chunk - 1,
	chunk,
	chunk + 1,
	2*chunk - 1,
	2 * chunk,
	2*chunk + 1,
	3 * chunk,
	4 * chunk,
	4*chunk + 1,
	5 * chunk,
	7*chunk + 512,
	8 * chunk,
	16*chunk + 1,
}

const chunk = treeline.ChunkSize
