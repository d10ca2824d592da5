// Package checksum provides the integrity checks used by sensor telegrams.
package checksum

import (
	"fmt"

	"github.com/sigurn/crc8"
)

// CRC8 is a table-driven, non-reflected CRC-8 with zero final xor.
type CRC8 struct {
	table *crc8.Table
}

// NewCRC8 builds the lookup table for poly and init.
func NewCRC8(poly, init uint8) CRC8 {
	return CRC8{table: crc8.MakeTable(crc8.Params{
		Poly: poly,
		Init: init,
		Name: fmt.Sprintf("CRC-8/0x%02X-0x%02X", poly, init),
	})}
}

// Sum returns the CRC of data.
func (c CRC8) Sum(data []byte) uint8 {
	return crc8.Checksum(data, c.table)
}

// AddBytes returns the sum of data modulo 256.
func AddBytes(data []byte) uint8 {
	var sum uint8
	for _, b := range data {
		sum += b
	}
	return sum
}
