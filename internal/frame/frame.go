package frame

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/snewz/rtl-433/internal/bitbuf"
)

// Layout describes where a fixed-size frame sits inside a bit row: the sync
// marker that precedes it, the plausible row lengths and the frame size.
type Layout struct {
	Sync     []byte
	SyncBits int
	MinBits  int
	MaxBits  int
	Size     int
}

// Raw is a frame sliced out of a row. It is not validated.
type Raw struct {
	Bytes   []byte
	Offset  int
	RowBits int
}

// Locate gates the row length, searches the sync marker from bit 0 and
// extracts Size bytes directly after it.
func Locate(row bitbuf.Row, l Layout, log logrus.FieldLogger) (Raw, error) {
	if log == nil {
		log = discard
	}
	n := row.Len()
	if n < l.MinBits || n > l.MaxBits {
		log.WithField("bits", n).Tracef("bit row length %d out of range [%d..%d]", n, l.MinBits, l.MaxBits)
		return Raw{}, fmt.Errorf("%w: row of %d bits outside [%d..%d]", ErrAbortLength, n, l.MinBits, l.MaxBits)
	}

	// A missed search yields n, so the length check below fails.
	offset := row.Search(0, l.Sync, l.SyncBits) + l.SyncBits
	if offset+l.Size*8 > n {
		log.WithFields(logrus.Fields{"row": row.String(), "offset": offset}).Debugf("short package at %d", offset)
		return Raw{}, fmt.Errorf("%w: short package at bit %d of %d", ErrAbortLength, offset, n)
	}

	data, err := row.Extract(offset, l.Size*8)
	if err != nil {
		return Raw{}, fmt.Errorf("%w: %v", ErrAbortLength, err)
	}
	log.WithFields(logrus.Fields{"offset": offset, "bits": n}).Trace("frame located")
	return Raw{Bytes: data, Offset: offset, RowBits: n}, nil
}

var discard = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
