package treeline

import "errors"

// ErrShortInput indicates that fewer bytes were supplied than a verify
// step required. It is the only recoverable decode error: no decoder
// state was mutated, and the caller should retry the same feed with a
// larger buffer.
var ErrShortInput = errors.New("insufficient input for verification")

// ErrHashMismatch indicates that enough bytes were supplied but they do
// not match the expected digest. The stream is corrupt or has been
// tampered with; nothing downstream of the failed region can be trusted,
// so the caller must abandon the decode.
var ErrHashMismatch = errors.New("input does not match expected digest")

// ErrMalformedNode indicates that a node record was parsed against a
// region whose children could not tile it. Fatal, same handling as
// [ErrHashMismatch].
var ErrMalformedNode = errors.New("node record children cannot tile region")
