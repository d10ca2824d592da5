package bitbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBitLengthNotation(t *testing.T) {
	r, err := Parse("{156}aaaaaaaaaaaa2dd4550107a40502dfbea449204")
	require.NoError(t, err)
	require.Equal(t, 156, r.Len())
	require.Equal(t, "{156}aaaaaaaaaaaa2dd4550107a40502dfbea4492040", r.String())
}

func TestParsePlainHex(t *testing.T) {
	r, err := Parse(" 0xAA_2D|D4 ")
	require.NoError(t, err)
	require.Equal(t, 24, r.Len())
	require.Equal(t, byte(1), r.Bit(0))
	require.Equal(t, byte(0), r.Bit(1))
}

func TestParseMasksTrailingBits(t *testing.T) {
	r, err := Parse("{4}ff")
	require.NoError(t, err)
	require.Equal(t, "{4}f0", r.String())
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"{12aa", "{x}aa", "{16}a", "zz"} {
		_, err := Parse(in)
		require.Error(t, err, in)
	}
}

func TestSearchAligned(t *testing.T) {
	r, err := Parse("aaaaaa2dd455")
	require.NoError(t, err)
	pos := r.Search(0, []byte{0xaa, 0x2d, 0xd4}, 24)
	require.Equal(t, 16, pos)
}

func TestSearchUnaligned(t *testing.T) {
	// 3 leading bits shift the preamble and sync off byte boundaries.
	r, err := Parse("{159}b5555555555545ba8aa020f480a05bf7d4892408")
	require.NoError(t, err)
	pos := r.Search(0, []byte{0xaa, 0x2d, 0xd4}, 24)
	require.Equal(t, 43, pos)

	frame, err := r.Extract(pos+24, 80)
	require.NoError(t, err)
	require.Equal(t, []byte{0x55, 0x01, 0x07, 0xa4, 0x05, 0x02, 0xdf, 0xbe, 0xa4, 0x49}, frame)
}

func TestSearchNotFound(t *testing.T) {
	r := FromBytes([]byte{0xaa, 0xaa, 0xaa, 0xaa})
	require.Equal(t, r.Len(), r.Search(0, []byte{0xaa, 0x2d, 0xd4}, 24))
	require.Equal(t, r.Len(), r.Search(40, []byte{0xaa}, 8))
}

func TestSearchFromStart(t *testing.T) {
	r := FromBytes([]byte{0xd4, 0x00, 0xd4})
	require.Equal(t, 0, r.Search(0, []byte{0xd4}, 8))
	require.Equal(t, 16, r.Search(1, []byte{0xd4}, 8))
}

func TestWindow(t *testing.T) {
	r := FromBytes([]byte{0x0f, 0xf0})
	w, err := r.Window(4, 8)
	require.NoError(t, err)
	require.Equal(t, 4, w.Offset())
	require.Equal(t, 8, w.Len())
	require.Equal(t, []byte{0xff}, w.Bytes())
	require.Equal(t, byte(1), w.Bit(7))

	w, err = r.Window(2, 5)
	require.NoError(t, err)
	require.Equal(t, []byte{0x38}, w.Bytes())

	_, err = r.Window(10, 8)
	require.Error(t, err)
}

func TestNewRowRejectsLength(t *testing.T) {
	_, err := NewRow([]byte{0x00}, 9)
	require.Error(t, err)
}
