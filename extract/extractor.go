// Package extract provides ready-made drive loops over treeline
// encoded streams: a seekable reader for decoded content, and a
// whole-stream checker.
//
// The core decoder in the treeline package performs no I/O; this
// package supplies the transport loop for the common case where the
// encoded stream is addressable through an [io.ReaderAt].
package extract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/treeline-engine/treeline"
	"github.com/treeline-engine/treeline/tlhash"
)

// Config is the configuration for [NewExtractor] and [Check].
type Config struct {
	// The encoded stream. Reads are issued at the exact offsets and
	// sizes the decoder requests, so any addressable source works.
	Encoded io.ReaderAt

	// The digest covering the stream's header record.
	Root tlhash.Digest

	// The hash function the stream was encoded with.
	Hasher tlhash.Hasher
}

// Extractor reads decoded, verified content out of an encoded stream.
// It implements [io.Reader] and [io.Seeker] over the original content.
//
// Any verification failure is sticky: once a read fails with anything
// other than [io.EOF], every subsequent read fails the same way.
//
// An Extractor is not safe for concurrent use.
type Extractor struct {
	log *slog.Logger

	dec *treeline.Decoder
	src io.ReaderAt

	// Current content offset as seen by the caller.
	pos uint64

	// Decoded bytes not yet returned to the caller. The decoder's
	// output borrows the scratch buffer, so bytes are copied here
	// before the buffer is reused.
	pending []byte

	// Scratch buffer for encoded reads.
	buf []byte

	err error
}

// NewExtractor returns an Extractor positioned at content offset zero.
func NewExtractor(log *slog.Logger, cfg Config) *Extractor {
	if cfg.Encoded == nil {
		panic(errors.New("BUG: Config.Encoded may not be nil"))
	}

	return &Extractor{
		log: log,

		dec: treeline.NewDecoder(treeline.DecoderConfig{
			RootDigest: cfg.Root,
			Hasher:     cfg.Hasher,
		}),
		src: cfg.Encoded,
	}
}

// Read fills p with the next decoded content bytes,
// returning [io.EOF] once the content is exhausted.
func (e *Extractor) Read(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	for len(e.pending) == 0 {
		done, err := e.step()
		if err != nil {
			e.err = err
			return 0, err
		}
		if done {
			return 0, io.EOF
		}
	}

	n := copy(p, e.pending)
	e.pending = e.pending[n:]
	e.pos += uint64(n)
	return n, nil
}

// step drives the decoder through one needed/feed round,
// appending any surfaced content to e.pending.
// It reports true when the decoder has reached EOF.
func (e *Extractor) step() (done bool, err error) {
	offset, size := e.dec.Needed()
	if size == 0 {
		return true, nil
	}

	if cap(e.buf) < size {
		e.buf = make([]byte, size)
	}
	buf := e.buf[:size]

	// ReadAt either fills buf completely or explains why it couldn't;
	// a full read at the end of the source may still report io.EOF.
	if n, err := e.src.ReadAt(buf, int64(offset)); n < size {
		if errors.Is(err, io.EOF) {
			// Running out of source mid-record means the stream was
			// truncated, not that the content ended.
			err = io.ErrUnexpectedEOF
		}
		return false, fmt.Errorf(
			"reading %d encoded bytes at offset %d: %w", size, offset, err,
		)
	}

	consumed, out, err := e.dec.Feed(buf)
	if err != nil {
		return false, err
	}
	if consumed != size {
		// Feed never consumes less than Needed reported
		// when given exactly that many bytes.
		panic(fmt.Errorf(
			"BUG: fed %d bytes but decoder consumed %d", size, consumed,
		))
	}

	if out != nil {
		e.pending = append(e.pending, out...)
	}
	return false, nil
}

// Seek repositions the next Read within the decoded content.
//
// Seeking relative to [io.SeekEnd] forces the header to be fetched and
// verified first if it has not been already, since the content length
// lives there.
func (e *Extractor) Seek(offset int64, whence int) (int64, error) {
	// A sticky decode error still forbids reading, but seeking is a
	// pure reposition and may outlive a transient source error, so it
	// is allowed to clear it.

	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(e.pos)
	case io.SeekEnd:
		n, err := e.contentLen()
		if err != nil {
			return 0, err
		}
		base = int64(n)
	default:
		return 0, fmt.Errorf("invalid seek whence %d", whence)
	}

	abs := base + offset
	if abs < 0 {
		return 0, fmt.Errorf("seek to negative content offset %d", abs)
	}

	e.dec.Seek(uint64(abs))
	e.pos = uint64(abs)
	e.pending = nil
	e.err = nil

	if e.log != nil {
		e.log.Debug("repositioned decode", "offset", abs)
	}
	return abs, nil
}

// contentLen returns the total content length, driving the decoder
// through the header fetch if necessary.
func (e *Extractor) contentLen() (uint64, error) {
	if n, ok := e.dec.Len(); ok {
		return n, nil
	}

	if _, err := e.step(); err != nil {
		return 0, err
	}

	n, ok := e.dec.Len()
	if !ok {
		panic(errors.New("BUG: header still unknown after a successful feed"))
	}
	return n, nil
}
