package extract_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/treeline-engine/treeline"
	"github.com/treeline-engine/treeline/extract"
	"github.com/treeline-engine/treeline/internal/tltest"
	"github.com/treeline-engine/treeline/tlhash/tlblake3"
	"github.com/treeline-engine/treeline/treelinetest"
)

func newExtractor(t *testing.T, content []byte) (*extract.Extractor, []byte) {
	t.Helper()

	h := tlblake3.Hasher{}
	encoded, root := treelinetest.Encode(h, content)

	e := extract.NewExtractor(tltest.NewLogger(t), extract.Config{
		Encoded: bytes.NewReader(encoded),
		Root:    root,
		Hasher:  h,
	})
	return e, encoded
}

func TestExtractor_readAll(t *testing.T) {
	t.Parallel()

	content := treelinetest.CounterBytes(5*4096 + 123)
	e, _ := newExtractor(t, content)

	got, err := io.ReadAll(e)
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestExtractor_readAll_empty(t *testing.T) {
	t.Parallel()

	e, _ := newExtractor(t, nil)

	got, err := io.ReadAll(e)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestExtractor_smallReads(t *testing.T) {
	t.Parallel()

	// Read through a buffer much smaller than a chunk, crossing chunk
	// boundaries repeatedly.
	content := treelinetest.CounterBytes(2*4096 + 17)
	e, _ := newExtractor(t, content)

	got := []byte{}
	buf := make([]byte, 100)
	for {
		n, err := e.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	require.Equal(t, content, got)
}

func TestExtractor_seek(t *testing.T) {
	t.Parallel()

	content := tltest.RandomDataForTest(t, 8*4096+57)
	e, _ := newExtractor(t, content)

	// SeekStart into the middle of a chunk.
	pos, err := e.Seek(4096+1000, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(4096+1000), pos)

	got, err := io.ReadAll(e)
	require.NoError(t, err)
	require.Equal(t, content[4096+1000:], got)

	// SeekEnd with a negative offset: the header has already been
	// verified, so the length is known.
	pos, err = e.Seek(-100, io.SeekEnd)
	require.NoError(t, err)
	require.Equal(t, int64(len(content)-100), pos)

	got, err = io.ReadAll(e)
	require.NoError(t, err)
	require.Equal(t, content[len(content)-100:], got)
}

func TestExtractor_seekEndBeforeAnyRead(t *testing.T) {
	t.Parallel()

	// SeekEnd forces the header fetch on a fresh extractor.
	content := tltest.RandomDataForTest(t, 3*4096)
	e, _ := newExtractor(t, content)

	pos, err := e.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	require.Equal(t, int64(len(content)), pos)

	_, err = e.Seek(-4096, io.SeekCurrent)
	require.NoError(t, err)

	got, err := io.ReadAll(e)
	require.NoError(t, err)
	require.Equal(t, content[len(content)-4096:], got)
}

func TestExtractor_tamperedStreamFails(t *testing.T) {
	t.Parallel()

	h := tlblake3.Hasher{}
	content := treelinetest.CounterBytes(4 * 4096)
	encoded, root := treelinetest.Encode(h, content)

	// Corrupt a byte in the last chunk's raw data.
	encoded[len(encoded)-10] ^= 0x01

	e := extract.NewExtractor(tltest.NewLogger(t), extract.Config{
		Encoded: bytes.NewReader(encoded),
		Root:    root,
		Hasher:  h,
	})

	got, err := io.ReadAll(e)
	require.ErrorIs(t, err, treeline.ErrHashMismatch)

	// Everything before the corrupted chunk came through clean.
	require.Equal(t, content[:3*4096], got)

	// The failure is sticky for reads.
	_, err = e.Read(make([]byte, 1))
	require.ErrorIs(t, err, treeline.ErrHashMismatch)
}

func TestExtractor_truncatedSource(t *testing.T) {
	t.Parallel()

	h := tlblake3.Hasher{}
	content := treelinetest.CounterBytes(2 * 4096)
	encoded, root := treelinetest.Encode(h, content)

	e := extract.NewExtractor(tltest.NewLogger(t), extract.Config{
		Encoded: bytes.NewReader(encoded[:len(encoded)-1]),
		Root:    root,
		Hasher:  h,
	})

	_, err := io.ReadAll(e)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
