// Package wh55 decodes the Fine Offset Electronics WH55 (also Ecowitt WH55)
// water leak sensor.
//
// Packet layout, after preamble aaaa aaaa and sync word 2dd4:
//
//	0  1  2 3  4  5  6  7  8  9
//	YY C IIIII 0B 0A UU UU XX CC
//
//	Y: 8 bit fixed sensor type 0x55
//	C: 4 bit channel (setting - 1)
//	I: 20 bit device ID
//	B: 3 bit battery bars (0-5)
//	A: 1 bit leakage alarm (0: alarm, 1: no alarm)
//	U: unknown data
//	X: CRC-8, poly 0x31, init 0x00 over bytes 0-7
//	C: sum of bytes 0-8
package wh55

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/snewz/rtl-433/internal/bitbuf"
	"github.com/snewz/rtl-433/internal/driver"
	"github.com/snewz/rtl-433/internal/records"
)

// Name is the registry name of the driver.
const Name = "fineoffset_wh55"

var outputFields = []string{
	"model",
	"id",
	"channel",
	"battery_ok",
	"alarm",
	"unknown1",
	"unknown2",
	"mic",
}

// Driver adapts Decode to driver.Driver.
type Driver struct{}

var _ driver.Driver = Driver{}

// Name returns the canonical driver name.
func (Driver) Name() string { return Name }

// Metadata describes the modulation expected from the receiver.
func (Driver) Metadata() driver.Metadata {
	fields := make([]string, len(outputFields))
	copy(fields, outputFields)
	return driver.Metadata{
		Name:       "Fine Offset Electronics WH55 water leak sensor",
		Modulation: driver.FSKPulsePCM,
		ShortWidth: 58,
		LongWidth:  58,
		ResetLimit: 2500,
		Fields:     fields,
	}
}

// Decode returns the reading as an output record.
func (Driver) Decode(row bitbuf.Row, log logrus.FieldLogger) (records.Record, error) {
	r, err := Decode(row, log)
	if err != nil {
		return nil, err
	}
	return r.Record(), nil
}

// Record renders the reading in output field order.
func (r Reading) Record() records.Record {
	alarm := 0
	if r.Alarm {
		alarm = 1
	}
	return records.Record{
		{Key: "model", Value: r.Model},
		{Key: "id", Label: "ID", Format: "%06x", Value: r.ID},
		{Key: "channel", Label: "Channel", Value: r.Channel},
		{Key: "battery_ok", Label: "Battery Level", Format: "%.1f", Value: r.BatteryOK},
		{Key: "alarm", Label: "Alarm", Value: alarm},
		{Key: "unknown1", Label: "Unknown 1", Format: "%04x", Value: r.Unknown1},
		{Key: "unknown2", Label: "Unknown 2", Format: "%04x", Value: r.Unknown2},
		{Key: "mic", Label: "Integrity", Value: r.MIC},
	}
}

var discard = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
