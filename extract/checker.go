package extract

import (
	"io"
	"log/slog"

	"github.com/bits-and-blooms/bitset"
	"github.com/treeline-engine/treeline"
)

// CheckResult reports how far a whole-stream verification got.
type CheckResult struct {
	// Total content length, from the verified header.
	ContentLen uint64

	// How many chunks cover the content.
	Chunks uint

	// Which chunk indices verified successfully. On a clean stream
	// every bit in [0, Chunks) is set; on a failed check the bits
	// cover exactly the chunks verified before the failure.
	Verified *bitset.BitSet
}

// Check verifies an entire encoded stream against its root digest
// without retaining any content. It walks the stream in content order
// and records each chunk that verifies.
//
// On a verification or read failure Check returns the error alongside
// the partial result; the result's Verified set then tells the caller
// exactly which content ranges are still trustworthy.
func Check(log *slog.Logger, cfg Config) (CheckResult, error) {
	e := NewExtractor(log, cfg)

	var res CheckResult

	n, err := e.contentLen()
	if err != nil {
		return res, err
	}
	res.ContentLen = n
	res.Chunks = uint((n + treeline.ChunkSize - 1) / treeline.ChunkSize)
	res.Verified = bitset.MustNew(res.Chunks)

	// Walking chunk by chunk from zero, every surfaced read begins at
	// a chunk boundary, so the chunk index is just position over size.
	var pos uint64
	buf := make([]byte, treeline.ChunkSize)
	for {
		nn, err := e.Read(buf)
		if nn > 0 {
			res.Verified.Set(uint(pos / treeline.ChunkSize))
			pos += uint64(nn)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, err
		}
	}

	if log != nil {
		log.Debug("stream check complete",
			"content_len", res.ContentLen,
			"chunks", res.Chunks,
		)
	}
	return res, nil
}
