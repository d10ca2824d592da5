// Package frame locates fixed-size telegrams inside demodulated bit rows and
// defines the decode failure taxonomy shared by device drivers.
package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrAbortLength means the row length is implausible for the protocol or
	// too few bits follow the sync marker.
	ErrAbortLength = errors.New("abort: length")
	// ErrAbortEarly means the sync matched but the frame is of another family.
	ErrAbortEarly = errors.New("abort: early")
	// ErrFailMIC means the frame failed its integrity check.
	ErrFailMIC = errors.New("fail: integrity check")
)

// ChecksumError carries the computed and received CRC and additive sum.
type ChecksumError struct {
	CRC, WantCRC uint8
	Sum, WantSum uint8
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum error: crc %02x (frame %02x) sum %02x (frame %02x)", e.CRC, e.WantCRC, e.Sum, e.WantSum)
}

func (e *ChecksumError) Unwrap() error { return ErrFailMIC }

// Outcome names a decode result for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrFailMIC):
		return "fail_mic"
	case errors.Is(err, ErrAbortEarly):
		return "abort_early"
	case errors.Is(err, ErrAbortLength):
		return "abort_length"
	default:
		return "fail_other"
	}
}

// Rank orders failures by how far decoding progressed; higher is further.
func Rank(err error) int {
	switch Outcome(err) {
	case "ok":
		return 4
	case "fail_mic":
		return 3
	case "abort_early":
		return 2
	case "abort_length":
		return 1
	default:
		return 0
	}
}
