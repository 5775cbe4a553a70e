package tlhash

// DigestSize is the width in bytes of every digest in a treeline stream.
const DigestSize = 32

// Digest is a fixed-size cryptographic summary of a byte range.
type Digest [DigestSize]byte

// Hasher is the user-defined interface for hashing encoded records and
// raw chunk bytes.
//
// Every digest in a stream is produced by a single Sum call over the
// exact bytes the digest covers, so implementations hold no state
// between calls.
//
// Hasher implementations must be safe to call concurrently.
type Hasher interface {
	Sum(in []byte) Digest
}
