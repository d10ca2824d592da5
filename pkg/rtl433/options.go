package rtl433

import (
	"github.com/snewz/rtl-433/internal/driver"
)

// Observer receives decode outcomes, e.g. for metrics.
type Observer interface {
	Row()
	Observe(driver string, err error)
}

// AnalyzeOptions configures decoding.
type AnalyzeOptions struct {
	// Registry defaults to DefaultRegistry().
	Registry *driver.Registry
	// Drivers restricts decoding to the named drivers, in that order.
	Drivers  []string
	Observer Observer
}

func (opts AnalyzeOptions) drivers() ([]driver.Driver, error) {
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	if len(opts.Drivers) == 0 {
		return reg.Drivers(), nil
	}
	out := make([]driver.Driver, 0, len(opts.Drivers))
	for _, name := range opts.Drivers {
		d, err := reg.Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
