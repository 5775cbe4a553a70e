package treeline

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/treeline-engine/treeline/tlhash"
)

// Layout constants for the encoded stream.
const (
	// ChunkSize is the leaf threshold: any span of content at or below
	// this size is encoded as raw bytes, anything larger starts with a
	// node record.
	ChunkSize = 4096

	// HeaderSize is the size of the header record: a little-endian
	// uint64 content length followed by the digest of the root span's
	// encoding.
	HeaderSize = 8 + tlhash.DigestSize

	// NodeSize is the size of a node record: the left child's digest
	// followed by the right child's digest.
	NodeSize = 2 * tlhash.DigestSize
)

// Region describes one contiguous span of original content,
// where its encoded representation lives in the encoded stream,
// and the digest those encoded bytes must satisfy.
//
// Regions are plain values; copying one is always safe.
type Region struct {
	// Span in original content coordinates, [Start, End).
	Start, End uint64

	// Byte offset of this span's encoded representation
	// within the encoded stream.
	EncodedOffset uint64

	// The digest covering the encoded bytes at EncodedOffset:
	// the raw chunk bytes for a leaf span,
	// or the node record for a larger span.
	Digest tlhash.Digest
}

// Len returns the length of the region's content span.
func (r Region) Len() uint64 {
	return r.End - r.Start
}

// Contains reports whether pos falls inside the region's content span.
func (r Region) Contains(pos uint64) bool {
	return pos >= r.Start && pos < r.End
}

// EncodedLen returns the total size of the region's encoded
// representation, including the node records of all subtrees.
func (r Region) EncodedLen() uint64 {
	return encodedSpanLen(r.Len())
}

// Node is a parsed node record: the two child regions of one parent
// region. The children's spans are contiguous and together tile the
// parent's span exactly.
type Node struct {
	Left, Right Region
}

// Contains reports whether pos falls inside the node's combined span.
func (n Node) Contains(pos uint64) bool {
	return n.Left.Contains(pos) || n.Right.Contains(pos)
}

// ParseNode parses an already-verified node record into the two child
// regions of r.
//
// The split point is not carried in the record; the left child always
// covers the largest power-of-two number of chunks strictly below r's
// total chunk count. ParseNode returns [ErrMalformedNode] if r is too
// small to be split, i.e. no pair of children could tile its span.
//
// The caller must pass exactly [NodeSize] bytes that were verified
// against r's digest; anything else is a bug in the caller.
func (r Region) ParseNode(b []byte) (Node, error) {
	if len(b) != NodeSize {
		panic(fmt.Errorf(
			"BUG: node record must be exactly %d bytes (got %d)", NodeSize, len(b),
		))
	}

	if r.Len() <= ChunkSize {
		return Node{}, fmt.Errorf(
			"%w: region of %d bytes has no children", ErrMalformedNode, r.Len(),
		)
	}

	leftLen := leftSpanLen(r.Len())

	var n Node
	n.Left = Region{
		Start:         r.Start,
		End:           r.Start + leftLen,
		EncodedOffset: r.EncodedOffset + NodeSize,
	}
	copy(n.Left.Digest[:], b[:tlhash.DigestSize])

	n.Right = Region{
		Start:         n.Left.End,
		End:           r.End,
		EncodedOffset: n.Left.EncodedOffset + n.Left.EncodedLen(),
	}
	copy(n.Right.Digest[:], b[tlhash.DigestSize:])

	return n, nil
}

// RegionFromHeader parses an already-verified header record into the
// root region, covering all of the content and describing the encoding
// that immediately follows the header.
//
// The header parse is infallible given verified bytes, so passing
// anything other than exactly [HeaderSize] bytes is a bug in the caller.
func RegionFromHeader(b []byte) Region {
	if len(b) != HeaderSize {
		panic(fmt.Errorf(
			"BUG: header record must be exactly %d bytes (got %d)", HeaderSize, len(b),
		))
	}

	r := Region{
		Start:         0,
		End:           binary.LittleEndian.Uint64(b[:8]),
		EncodedOffset: HeaderSize,
	}
	copy(r.Digest[:], b[8:])
	return r
}

// EncodedSize returns the size of a complete encoded stream for the
// given quantity of content, header included. Useful for pre-sizing
// buffers or validating stream sources.
func EncodedSize(contentLen uint64) uint64 {
	return HeaderSize + encodedSpanLen(contentLen)
}

// encodedSpanLen is the encoded size of one span of n content bytes:
// the raw bytes plus one node record per subtree split.
func encodedSpanLen(n uint64) uint64 {
	return n + NodeSize*(chunkCount(n)-1)
}

// chunkCount returns how many chunks cover n content bytes.
// Zero-length content still occupies one (empty) chunk.
func chunkCount(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	return (n + ChunkSize - 1) / ChunkSize
}

// leftSpanLen returns the content length of the left child of a span of
// n bytes: the largest power-of-two number of whole chunks strictly
// below the span's total chunk count.
func leftSpanLen(n uint64) uint64 {
	c := chunkCount(n)
	return (uint64(1) << (bits.Len64(c-1) - 1)) * ChunkSize
}
