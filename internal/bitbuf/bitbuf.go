// Package bitbuf models one demodulated transmission as a bit-length-aware
// row of packed bytes, with bit-level search and windowed extraction.
package bitbuf

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Row is an immutable sequence of bits packed MSB-first into bytes. The bit
// length does not need to be a multiple of eight.
type Row struct {
	data []byte
	n    int
}

// NewRow copies data and keeps the first n bits of it.
func NewRow(data []byte, n int) (Row, error) {
	if n < 0 || n > len(data)*8 {
		return Row{}, fmt.Errorf("bit length %d out of range for %d bytes", n, len(data))
	}
	buf := make([]byte, (n+7)/8)
	copy(buf, data)
	if rem := n % 8; rem != 0 {
		buf[len(buf)-1] &= 0xFF << (8 - rem)
	}
	return Row{data: buf, n: n}, nil
}

// FromBytes returns a row holding every bit of data.
func FromBytes(data []byte) Row {
	r, _ := NewRow(data, len(data)*8)
	return r
}

// Parse reads a row in rtl_433 notation, "{N}hex", or as plain hex digits.
// Whitespace, '|' and '_' separators and a leading 0x are ignored.
func Parse(input string) (Row, error) {
	clean := stripSeparators(input)
	n := -1
	if strings.HasPrefix(clean, "{") {
		end := strings.IndexByte(clean, '}')
		if end < 0 {
			return Row{}, fmt.Errorf("unterminated bit length in %q", input)
		}
		v, err := strconv.Atoi(clean[1:end])
		if err != nil || v < 0 {
			return Row{}, fmt.Errorf("invalid bit length %q", clean[1:end])
		}
		n = v
		clean = clean[end+1:]
	}
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		clean = clean[2:]
	}
	if n < 0 {
		n = len(clean) * 4
	}
	if need := (n + 3) / 4; len(clean) < need {
		return Row{}, fmt.Errorf("%d bits need %d hex digits, got %d", n, need, len(clean))
	}
	if len(clean)%2 != 0 {
		clean += "0"
	}
	data, err := hex.DecodeString(clean)
	if err != nil {
		return Row{}, fmt.Errorf("decode hex: %w", err)
	}
	return NewRow(data, n)
}

// Len returns the row length in bits.
func (r Row) Len() int { return r.n }

// Bit returns the bit at position i (0 or 1). It panics if i is out of range,
// like a slice index.
func (r Row) Bit(i int) byte {
	if i < 0 || i >= r.n {
		panic(fmt.Sprintf("bitbuf: bit index %d out of range [0,%d)", i, r.n))
	}
	return bitAt(r.data, i)
}

// Search returns the first bit position at or after start where the first
// patternBits bits of pattern occur. It returns Len() when there is no match.
func (r Row) Search(start int, pattern []byte, patternBits int) int {
	if start < 0 {
		start = 0
	}
	if patternBits <= 0 || patternBits > len(pattern)*8 {
		return r.n
	}
	for pos := start; pos+patternBits <= r.n; pos++ {
		match := true
		for j := 0; j < patternBits; j++ {
			if bitAt(r.data, pos+j) != bitAt(pattern, j) {
				match = false
				break
			}
		}
		if match {
			return pos
		}
	}
	return r.n
}

// Window returns a view of n bits starting at offset.
func (r Row) Window(offset, n int) (Window, error) {
	if offset < 0 || n < 0 || offset+n > r.n {
		return Window{}, fmt.Errorf("window [%d,+%d) exceeds row of %d bits", offset, n, r.n)
	}
	return Window{row: r, offset: offset, n: n}, nil
}

// Extract packs n bits starting at offset into a new byte slice.
func (r Row) Extract(offset, n int) ([]byte, error) {
	w, err := r.Window(offset, n)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// String renders the row as "{N}hex".
func (r Row) String() string {
	return fmt.Sprintf("{%d}%s", r.n, hex.EncodeToString(r.data))
}

// Window is an offset and length view into a Row.
type Window struct {
	row    Row
	offset int
	n      int
}

// Len returns the window length in bits.
func (w Window) Len() int { return w.n }

// Offset returns the bit position of the window inside its row.
func (w Window) Offset() int { return w.offset }

// Bit returns bit i of the window.
func (w Window) Bit(i int) byte {
	if i < 0 || i >= w.n {
		panic(fmt.Sprintf("bitbuf: window bit %d out of range [0,%d)", i, w.n))
	}
	return bitAt(w.row.data, w.offset+i)
}

// Bytes packs the window MSB-first; a trailing partial byte is zero padded.
func (w Window) Bytes() []byte {
	out := make([]byte, (w.n+7)/8)
	shift := w.offset % 8
	first := w.offset / 8
	for i := range out {
		b := w.row.data[first+i] << shift
		if shift != 0 && first+i+1 < len(w.row.data) {
			b |= w.row.data[first+i+1] >> (8 - shift)
		}
		out[i] = b
	}
	if rem := w.n % 8; rem != 0 {
		out[len(out)-1] &= 0xFF << (8 - rem)
	}
	return out
}

func bitAt(data []byte, i int) byte {
	return (data[i/8] >> (7 - uint(i%8))) & 1
}

func stripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '|' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
