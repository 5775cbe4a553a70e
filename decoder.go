package treeline

import (
	"errors"
	"fmt"

	"github.com/treeline-engine/treeline/tlhash"
)

// stateKind is the decoder's position-derived state.
type stateKind int

const (
	// Header not yet fed and verified.
	stateNoHeader stateKind = iota

	// Position at or past the end of the content; decoding is complete
	// until a seek moves the position back into range.
	stateEOF

	// The region enclosing the position is a leaf; the next feed is the
	// raw chunk bytes.
	stateChunk

	// The region enclosing the position must be split further; the next
	// feed is a node record.
	stateNode
)

// Decoder is the state machine that consumes a treeline encoded stream
// and reconstructs the verified content in order.
//
// The decoder is pull-based: [*Decoder.Needed] reports which encoded
// byte range the decoder wants next, and [*Decoder.Feed] consumes it.
// [*Decoder.Seek] repositions the decode to an arbitrary content
// offset without discarding already-verified tree structure.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	// The externally supplied trust anchor.
	// Everything else in the stream is verified transitively against it.
	rootDigest tlhash.Digest

	hasher tlhash.Hasher

	// The root region, once the header has been verified and parsed.
	header     Region
	haveHeader bool

	// The next content offset to surface.
	position uint64

	// The path of parsed nodes from the root down to the region
	// currently being resolved. Invariant: when non-empty, the node on
	// top contains the current position.
	stack []Node
}

// DecoderConfig is the configuration for [NewDecoder].
type DecoderConfig struct {
	// The digest covering the stream's header record.
	// This is the only input the decoder trusts without verification.
	RootDigest tlhash.Digest

	// The hash function every digest in the stream was produced with.
	Hasher tlhash.Hasher
}

// NewDecoder returns a Decoder positioned at content offset zero,
// ready to be fed the header record.
func NewDecoder(cfg DecoderConfig) *Decoder {
	if cfg.Hasher == nil {
		panic(errors.New("BUG: DecoderConfig.Hasher may not be nil"))
	}

	return &Decoder{
		rootDigest: cfg.RootDigest,
		hasher:     cfg.Hasher,
	}
}

// Len returns the total content length,
// reporting false until the header has been fed and verified.
func (d *Decoder) Len() (uint64, bool) {
	if !d.haveHeader {
		return 0, false
	}
	return d.header.Len(), true
}

// state resolves the current position against the header and the
// traversal stack. It relies on the stack invariant (position inside
// the top node) and never repairs it.
func (d *Decoder) state() (stateKind, Region) {
	if !d.haveHeader {
		return stateNoHeader, Region{}
	}
	if d.position >= d.header.End {
		return stateEOF, Region{}
	}

	cur := d.header
	if len(d.stack) > 0 {
		top := d.stack[len(d.stack)-1]
		if top.Left.Contains(d.position) {
			cur = top.Left
		} else {
			cur = top.Right
		}
	}

	if cur.Len() <= ChunkSize {
		return stateChunk, cur
	}
	return stateNode, cur
}

// Needed returns the encoded byte range the decoder wants in the next
// call to [*Decoder.Feed]. A size of zero means decoding is complete.
//
// The size is advisory in one direction only: Feed tolerates shorter
// buffers (reporting [ErrShortInput]) and longer ones, but never needs
// more than this many bytes to make progress.
func (d *Decoder) Needed() (offset uint64, size int) {
	switch kind, region := d.state(); kind {
	case stateNoHeader:
		return 0, HeaderSize
	case stateEOF:
		return 0, 0
	case stateChunk:
		return region.EncodedOffset, int(region.Len())
	case stateNode:
		return region.EncodedOffset, NodeSize
	default:
		panic(fmt.Errorf("BUG: unhandled decoder state %d", kind))
	}
}

// Seek moves the decoder to the given content offset. The next chunk
// surfaced by [*Decoder.Feed] will begin exactly at position, even when
// that lands in the middle of a chunk.
//
// Nodes already on the traversal stack whose spans still contain the
// new position stay put; their digests were checked when they were
// parsed and do not need re-verification. Re-descending below the
// surviving stack happens lazily through subsequent feeds.
func (d *Decoder) Seek(position uint64) {
	// Assigning the position may break the stack invariant;
	// the pops below restore it before returning.
	d.position = position

	// Without a header, or at EOF, state() ignores the stack entirely.
	var headerEnd uint64
	if d.haveHeader {
		headerEnd = d.header.End
	}
	if d.position >= headerEnd {
		return
	}

	// Pop every node that no longer contains the position. The bottom
	// node spans all of the content, so it survives any in-range seek.
	for len(d.stack) > 0 {
		if d.stack[len(d.stack)-1].Contains(position) {
			break
		}
		d.stack = d.stack[:len(d.stack)-1]
	}
}

// Feed gives the decoder the encoded bytes it asked for via
// [*Decoder.Needed]. It returns how many bytes were consumed from in,
// and, when a chunk was fully verified, the decoded content bytes.
//
// The returned out slice is a view into in, valid only as long as the
// caller keeps in alive and unmodified; the decoder retains no
// reference to it. out is nil on feeds that consume header or node
// records.
//
// On [ErrShortInput] no state was mutated and no bytes were consumed;
// the caller should retry with a larger buffer. [ErrHashMismatch] and
// [ErrMalformedNode] are fatal for the stream.
func (d *Decoder) Feed(in []byte) (consumed int, out []byte, err error) {
	// Immediately shadow the input with the wrapper that only yields
	// bytes on a successful digest check.
	u := WrapUnverified(in)

	switch kind, region := d.state(); kind {
	case stateNoHeader:
		return d.feedHeader(u)
	case stateEOF:
		return 0, nil, nil
	case stateChunk:
		return d.feedChunk(u, region)
	case stateNode:
		return d.feedNode(u, region)
	default:
		panic(fmt.Errorf("BUG: unhandled decoder state %d", kind))
	}
}

func (d *Decoder) feedHeader(u *Unverified) (int, []byte, error) {
	hb, err := u.ReadVerify(HeaderSize, d.hasher, d.rootDigest)
	if err != nil {
		return 0, nil, fmt.Errorf("verifying header record: %w", err)
	}

	d.header = RegionFromHeader(hb)
	d.haveHeader = true
	return HeaderSize, nil, nil
}

func (d *Decoder) feedChunk(u *Unverified, region Region) (int, []byte, error) {
	cb, err := u.ReadVerify(int(region.Len()), d.hasher, region.Digest)
	if err != nil {
		return 0, nil, fmt.Errorf(
			"verifying chunk for content [%d, %d): %w", region.Start, region.End, err,
		)
	}

	// A previous seek may have landed inside this chunk. The whole
	// chunk is hashed regardless, but only the bytes from the seek
	// position onward are surfaced.
	chunkOffset := d.position - region.Start
	out := cb[chunkOffset:]

	// Advance past this chunk, popping any finished nodes.
	d.Seek(region.End)

	// Consumed is the full chunk length even when only a tail was
	// surfaced: the caller advances through the encoded stream by whole
	// records.
	return len(cb), out, nil
}

func (d *Decoder) feedNode(u *Unverified, region Region) (int, []byte, error) {
	nb, err := u.ReadVerify(NodeSize, d.hasher, region.Digest)
	if err != nil {
		return 0, nil, fmt.Errorf(
			"verifying node record for content [%d, %d): %w", region.Start, region.End, err,
		)
	}

	node, err := region.ParseNode(nb)
	if err != nil {
		return 0, nil, fmt.Errorf(
			"parsing node record for content [%d, %d): %w", region.Start, region.End, err,
		)
	}

	d.stack = append(d.stack, node)
	return NodeSize, nil, nil
}
