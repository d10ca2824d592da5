// Package rtl433 decodes demodulated bit rows with the registered sensor
// drivers.
package rtl433

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/snewz/rtl-433/internal/bitbuf"
	"github.com/snewz/rtl-433/internal/driver"
	"github.com/snewz/rtl-433/internal/driver/wh55"
	"github.com/snewz/rtl-433/internal/frame"
	"github.com/snewz/rtl-433/internal/options"
	"github.com/snewz/rtl-433/internal/records"
)

// ErrNoMatch is returned when no driver accepts a row.
var ErrNoMatch = errors.New("no driver decoded the bit row")

// Result captures the outcome of AnalyzeRow.
type Result struct {
	Driver  string
	Row     string
	BitLen  int
	Record  records.Record
	Fields  map[string]any
	Outcome string
}

// String renders a human-readable representation of the result.
func (r Result) String() string {
	summary := map[string]any{
		"driver":  r.Driver,
		"bits":    r.BitLen,
		"row":     r.Row,
		"outcome": r.Outcome,
	}
	if len(r.Fields) > 0 {
		summary["fields"] = r.Fields
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("driver: %s bits:%d row:%s (marshal error: %v)", r.Driver, r.BitLen, r.Row, err)
	}
	return string(data)
}

// DefaultRegistry returns a registry holding every built-in driver.
func DefaultRegistry() *driver.Registry {
	return driver.NewRegistry(wh55.Driver{})
}

// AnalyzeRow parses the row and decodes it with the default drivers.
func AnalyzeRow(ctx context.Context, raw string) (Result, error) {
	return AnalyzeRowWithOptions(ctx, raw, AnalyzeOptions{})
}

// AnalyzeRowWithOptions parses the row and decodes it with custom options.
// Drivers run in registration order; the first one that accepts the row
// wins. When none does, the error of the driver that progressed furthest is
// returned wrapped in ErrNoMatch.
func AnalyzeRowWithOptions(ctx context.Context, raw string, opts AnalyzeOptions) (Result, error) {
	row, err := bitbuf.Parse(raw)
	if err != nil {
		return Result{}, err
	}
	drivers, err := opts.drivers()
	if err != nil {
		return Result{}, err
	}
	log := options.Logger(ctx)
	if opts.Observer != nil {
		opts.Observer.Row()
	}

	result := Result{
		Driver: "unknown",
		Row:    row.String(),
		BitLen: row.Len(),
	}
	var best error
	for _, drv := range drivers {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rec, err := drv.Decode(row, log)
		if opts.Observer != nil {
			opts.Observer.Observe(drv.Name(), err)
		}
		if err != nil {
			if best == nil || frame.Rank(err) > frame.Rank(best) {
				best = fmt.Errorf("%s: %w", drv.Name(), err)
			}
			continue
		}
		result.Driver = drv.Name()
		result.Record = rec
		result.Fields = rec.Map()
		result.Outcome = frame.Outcome(nil)
		return result, nil
	}
	if best == nil {
		return result, ErrNoMatch
	}
	result.Outcome = frame.Outcome(best)
	return result, fmt.Errorf("%w: %w", ErrNoMatch, best)
}
