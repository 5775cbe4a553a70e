package treeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/treeline-engine/treeline"
	"github.com/treeline-engine/treeline/tlhash/tlsha256"
)

func TestUnverified_readVerify(t *testing.T) {
	t.Parallel()

	h := tlsha256.Hasher{}
	buf := []byte("hello, world")

	u := treeline.WrapUnverified(buf)

	got, err := u.ReadVerify(5, h, h.Sum([]byte("hello")))
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)

	// The wrapper advanced; the next read starts after the verified
	// prefix.
	rest, err := u.ReadVerify(7, h, h.Sum([]byte(", world")))
	require.NoError(t, err)
	require.Equal(t, []byte(", world"), rest)
}

func TestUnverified_shortInput(t *testing.T) {
	t.Parallel()

	h := tlsha256.Hasher{}
	u := treeline.WrapUnverified([]byte("abc"))

	_, err := u.ReadVerify(4, h, h.Sum([]byte("abcd")))
	require.ErrorIs(t, err, treeline.ErrShortInput)

	// Nothing was consumed, so a read that fits still succeeds.
	got, err := u.ReadVerify(3, h, h.Sum([]byte("abc")))
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)
}

func TestUnverified_hashMismatch(t *testing.T) {
	t.Parallel()

	h := tlsha256.Hasher{}
	u := treeline.WrapUnverified([]byte("abc"))

	_, err := u.ReadVerify(3, h, h.Sum([]byte("abx")))
	require.ErrorIs(t, err, treeline.ErrHashMismatch)

	// A mismatch consumes nothing either; the correct digest for the
	// same bytes still verifies.
	got, err := u.ReadVerify(3, h, h.Sum([]byte("abc")))
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)
}
