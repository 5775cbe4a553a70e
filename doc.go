// Package treeline contains the core decoder for treeline encoded streams.
//
// A treeline stream is a hash tree over fixed-size chunks of content:
// the stream begins with a header record carrying the content length and
// the root digest of the tree, every span longer than one chunk begins
// with a node record carrying the digests of its two child spans, and
// leaf spans are raw content bytes. The [Decoder] consumes such a stream
// incrementally through a pull-based [*Decoder.Needed]/[*Decoder.Feed]
// handshake, and never surfaces a byte of content before the digest
// covering it has been checked.
//
// The decoder performs no I/O of its own. See the extract package for a
// ready-made drive loop over an [io.ReaderAt], and the treelinetest
// package for a reference encoder.
package treeline
