package wh55

import (
	"encoding/hex"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/snewz/rtl-433/internal/bitbuf"
	"github.com/snewz/rtl-433/internal/checksum"
	"github.com/snewz/rtl-433/internal/frame"
)

const (
	// Model is the output model tag.
	Model = "Fineoffset-wh55"
	// MIC names the integrity mechanism that validated a frame.
	MIC = "CRC"

	familyCode = 0x55
	frameSize  = 10
	minBits    = 150
	maxBits    = 220
)

// Layout is the on-air framing: last preamble byte and sync word 2dd4,
// followed by a 10 byte frame.
var Layout = frame.Layout{
	Sync:     []byte{0xaa, 0x2d, 0xd4},
	SyncBits: 24,
	MinBits:  minBits,
	MaxBits:  maxBits,
	Size:     frameSize,
}

var crc = checksum.NewCRC8(0x31, 0x00)

// Reading is a validated WH55 telegram.
type Reading struct {
	Model       string
	ID          uint32
	Channel     int
	BatteryBars uint8
	BatteryOK   float64
	Alarm       bool
	Unknown1    uint16
	Unknown2    uint16
	MIC         string
}

// Decode locates, validates and unpacks one WH55 telegram from row.
func Decode(row bitbuf.Row, log logrus.FieldLogger) (Reading, error) {
	log = decoderLogger(log)
	raw, err := frame.Locate(row, Layout, log)
	if err != nil {
		return Reading{}, err
	}
	if err := Validate(raw.Bytes, log); err != nil {
		return Reading{}, err
	}
	return decodeFields(raw.Bytes), nil
}

// Validate checks the family code, then the CRC-8 in byte 8 and the byte sum
// in byte 9.
func Validate(b []byte, log logrus.FieldLogger) error {
	log = decoderLogger(log)
	if len(b) != frameSize {
		return fmt.Errorf("%w: frame of %d bytes, want %d", frame.ErrAbortLength, len(b), frameSize)
	}
	if b[0] != familyCode {
		return fmt.Errorf("%w: family code %02x", frame.ErrAbortEarly, b[0])
	}

	log.WithField("frame", hex.EncodeToString(b)).Debug("raw frame")

	c := crc.Sum(b[:8])
	sum := checksum.AddBytes(b[:9])
	if c != b[8] || sum != b[9] {
		log.Debugf("Checksum error: %02x %02x", c, sum)
		return &frame.ChecksumError{CRC: c, WantCRC: b[8], Sum: sum, WantSum: b[9]}
	}
	return nil
}

// decodeFields expects a frame that passed Validate.
func decodeFields(b []byte) Reading {
	bars := b[4] & 0x0F
	return Reading{
		Model:       Model,
		ID:          uint32(b[1]&0x0F)<<16 | uint32(b[2])<<8 | uint32(b[3]),
		Channel:     int(b[1]>>4) + 1,
		BatteryBars: bars,
		BatteryOK:   float64(bars) * 0.2,
		// Bit 1 of byte 5 is cleared while the sensor reports a leak.
		Alarm:    b[5]&0x02 == 0,
		Unknown1: uint16(b[4])<<8 | uint16(b[5]),
		Unknown2: uint16(b[6])<<8 | uint16(b[7]),
		MIC:      MIC,
	}
}

func decoderLogger(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return discard
	}
	return log.WithField("decoder", Name)
}
