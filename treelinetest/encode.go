// Package treelinetest provides helpers for tests involving treeline
// encoded streams, most notably a reference encoder.
package treelinetest

import (
	"encoding/binary"
	"fmt"

	"github.com/treeline-engine/treeline"
	"github.com/treeline-engine/treeline/tlhash"
)

// Encode produces the complete encoded stream for the given content,
// and the root digest that anchors it: the digest of the header record,
// which is what a [treeline.Decoder] is constructed with.
//
// The encoding is written pre-order: the header, then for every span
// larger than one chunk a node record followed by the left child's
// encoding and then the right child's, and raw bytes for leaf spans.
func Encode(h tlhash.Hasher, content []byte) ([]byte, tlhash.Digest) {
	encoded := make([]byte, treeline.EncodedSize(uint64(len(content))))

	var rootSpan tlhash.Digest
	if len(content) > 0 {
		rootSpan = encodeSpan(h, encoded[treeline.HeaderSize:], content)
	}

	binary.LittleEndian.PutUint64(encoded[:8], uint64(len(content)))
	copy(encoded[8:treeline.HeaderSize], rootSpan[:])

	return encoded, h.Sum(encoded[:treeline.HeaderSize])
}

// encodeSpan writes the encoding of one content span into b,
// which must be exactly the span's encoded length,
// and returns the digest covering the span's first record.
func encodeSpan(h tlhash.Hasher, b, content []byte) tlhash.Digest {
	if len(content) <= treeline.ChunkSize {
		copy(b, content)
		return h.Sum(content)
	}

	leftLen := leftSpanLen(uint64(len(content)))
	leftEncodedLen := treeline.Region{End: leftLen}.EncodedLen()

	left := b[treeline.NodeSize : treeline.NodeSize+leftEncodedLen]
	right := b[treeline.NodeSize+leftEncodedLen:]

	ld := encodeSpan(h, left, content[:leftLen])
	rd := encodeSpan(h, right, content[leftLen:])

	copy(b[:tlhash.DigestSize], ld[:])
	copy(b[tlhash.DigestSize:treeline.NodeSize], rd[:])

	return h.Sum(b[:treeline.NodeSize])
}

// leftSpanLen mirrors the decoder's implicit split rule: the left child
// covers the largest power-of-two number of whole chunks strictly below
// the span's total chunk count.
func leftSpanLen(n uint64) uint64 {
	if n <= treeline.ChunkSize {
		panic(fmt.Errorf("BUG: span of %d bytes is a single chunk, not splittable", n))
	}

	split := uint64(treeline.ChunkSize)
	for split*2 < n {
		split *= 2
	}
	return split
}
