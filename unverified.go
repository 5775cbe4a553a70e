package treeline

import (
	"crypto/subtle"
	"fmt"

	"github.com/treeline-engine/treeline/tlhash"
)

// Unverified wraps a caller-supplied buffer of encoded bytes so that
// the bytes can only be accessed after a digest check. It is the
// decoder's structural guarantee that unverified input never leaks:
// [*Unverified.ReadVerify] is the only accessor.
type Unverified struct {
	buf []byte
}

// WrapUnverified wraps b for verified reading. The wrapper borrows b
// for its own lifetime; the caller must not mutate b while the wrapper
// is in use.
func WrapUnverified(b []byte) *Unverified {
	return &Unverified{buf: b}
}

// ReadVerify checks the next n bytes of the wrapped buffer against the
// wanted digest, and on success returns exactly those n bytes and
// advances past them.
//
// If fewer than n bytes remain, ReadVerify returns [ErrShortInput]; if
// enough bytes remain but they do not hash to want, it returns
// [ErrHashMismatch]. Either way nothing is consumed, so the caller can
// safely retry with a rewrapped, larger buffer.
func (u *Unverified) ReadVerify(n int, h tlhash.Hasher, want tlhash.Digest) ([]byte, error) {
	if len(u.buf) < n {
		return nil, fmt.Errorf(
			"%w: have %d bytes, need %d", ErrShortInput, len(u.buf), n,
		)
	}

	got := h.Sum(u.buf[:n])
	if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
		return nil, ErrHashMismatch
	}

	out := u.buf[:n]
	u.buf = u.buf[n:]
	return out, nil
}
