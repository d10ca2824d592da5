package driver

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/snewz/rtl-433/internal/bitbuf"
	"github.com/snewz/rtl-433/internal/records"
)

// Modulation names the demodulator a device expects upstream.
type Modulation string

const (
	OOKPulsePCM Modulation = "OOK_PULSE_PCM"
	OOKPulsePWM Modulation = "OOK_PULSE_PWM"
	FSKPulsePCM Modulation = "FSK_PULSE_PCM"
	FSKPulsePWM Modulation = "FSK_PULSE_PWM"
)

// Metadata declares a device for receivers that enumerate drivers. Widths
// and the reset limit are in microseconds and only drive the demodulator.
type Metadata struct {
	Name       string     `json:"name"`
	Modulation Modulation `json:"modulation"`
	ShortWidth int        `json:"short_width"`
	LongWidth  int        `json:"long_width"`
	ResetLimit int        `json:"reset_limit"`
	Fields     []string   `json:"fields"`
}

// Driver decodes one demodulated bit row.
type Driver interface {
	Name() string
	Metadata() Metadata
	Decode(bitbuf.Row, logrus.FieldLogger) (records.Record, error)
}

// Registry is an ordered set of drivers. The zero value is empty and ready
// to use.
type Registry struct {
	mu      sync.RWMutex
	drivers []Driver
}

// NewRegistry returns a registry holding drivers in the given order.
func NewRegistry(drivers ...Driver) *Registry {
	r := &Registry{}
	for _, d := range drivers {
		r.Register(d)
	}
	return r
}

// Register appends drv; a driver with the same name replaces the old one.
func (r *Registry) Register(drv Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.drivers {
		if d.Name() == drv.Name() {
			r.drivers[i] = drv
			return
		}
	}
	r.drivers = append(r.drivers, drv)
}

// Lookup returns the driver registered under name.
func (r *Registry) Lookup(name string) (Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.drivers {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("driver %q not registered", name)
}

// Drivers returns a snapshot in registration order.
func (r *Registry) Drivers() []Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Driver, len(r.drivers))
	copy(out, r.drivers)
	return out
}
