package driver

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/snewz/rtl-433/internal/bitbuf"
	"github.com/snewz/rtl-433/internal/records"
)

type stubDriver struct {
	name  string
	model string
}

func (s stubDriver) Name() string { return s.name }

func (s stubDriver) Metadata() Metadata {
	return Metadata{Name: s.name, Modulation: OOKPulsePWM}
}

func (s stubDriver) Decode(bitbuf.Row, logrus.FieldLogger) (records.Record, error) {
	return records.Record{{Key: "model", Value: s.model}}, nil
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry(stubDriver{name: "a"}, stubDriver{name: "b"})
	d, err := reg.Lookup("b")
	require.NoError(t, err)
	require.Equal(t, "b", d.Name())

	_, err = reg.Lookup("c")
	require.Error(t, err)
}

func TestRegistryReplacesByName(t *testing.T) {
	reg := NewRegistry(stubDriver{name: "a", model: "old"}, stubDriver{name: "b"})
	reg.Register(stubDriver{name: "a", model: "new"})

	drivers := reg.Drivers()
	require.Len(t, drivers, 2)
	require.Equal(t, "a", drivers[0].Name())
	rec, err := drivers[0].Decode(bitbuf.Row{}, nil)
	require.NoError(t, err)
	v, _ := rec.Get("model")
	require.Equal(t, "new", v)
}

func TestZeroRegistry(t *testing.T) {
	var reg Registry
	require.Empty(t, reg.Drivers())
	reg.Register(stubDriver{name: "a"})
	require.Len(t, reg.Drivers(), 1)
}
