package rtl433

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/snewz/rtl-433/internal/driver/wh55"
	"github.com/snewz/rtl-433/internal/frame"
	"github.com/snewz/rtl-433/internal/options"
)

const channel1Row = "{156}aaaaaaaaaaaa2dd4550107a40502dfbea449204"

type countingObserver struct {
	rows     int
	outcomes map[string]int
}

func (o *countingObserver) Row() { o.rows++ }

func (o *countingObserver) Observe(_ string, err error) {
	if o.outcomes == nil {
		o.outcomes = map[string]int{}
	}
	o.outcomes[frame.Outcome(err)]++
}

func TestAnalyzeRow(t *testing.T) {
	result, err := AnalyzeRow(context.Background(), channel1Row)
	require.NoError(t, err)
	require.Equal(t, wh55.Name, result.Driver)
	require.Equal(t, 156, result.BitLen)
	require.Equal(t, "ok", result.Outcome)

	fs := result.FieldSet()
	model, err := fs.String("model")
	require.NoError(t, err)
	require.Equal(t, "Fineoffset-wh55", model)
	id, err := fs.Hex("id")
	require.NoError(t, err)
	require.Equal(t, uint64(0x107a4), id)
	ch, err := fs.Int("channel")
	require.NoError(t, err)
	require.Equal(t, int64(1), ch)
	batt, err := fs.Float("battery_ok")
	require.NoError(t, err)
	require.Equal(t, 1.0, batt)
	alarm, err := fs.Bool("alarm")
	require.NoError(t, err)
	require.False(t, alarm)
	_, err = fs.Int("missing")
	require.Error(t, err)

	require.Contains(t, result.String(), `"driver": "fineoffset_wh55"`)
}

func TestAnalyzeRowChecksumFailure(t *testing.T) {
	obs := &countingObserver{}
	result, err := AnalyzeRowWithOptions(context.Background(),
		"{160}aaaaaaaaaaaa2dd4553107a40280acbf787f0848", AnalyzeOptions{Observer: obs})
	require.ErrorIs(t, err, ErrNoMatch)
	require.ErrorIs(t, err, frame.ErrFailMIC)
	require.Equal(t, "unknown", result.Driver)
	require.Equal(t, "fail_mic", result.Outcome)
	require.Nil(t, result.Fields)
	require.Equal(t, 1, obs.rows)
	require.Equal(t, 1, obs.outcomes["fail_mic"])
}

func TestAnalyzeRowTooShort(t *testing.T) {
	_, err := AnalyzeRow(context.Background(), "aaaa2dd4550107a40502dfbea449")
	require.ErrorIs(t, err, frame.ErrAbortLength)
}

func TestAnalyzeRowInvalidInput(t *testing.T) {
	_, err := AnalyzeRow(context.Background(), "{12}zz")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNoMatch))
}

func TestAnalyzeRowUnknownDriver(t *testing.T) {
	_, err := AnalyzeRowWithOptions(context.Background(), channel1Row, AnalyzeOptions{Drivers: []string{"nope"}})
	require.ErrorContains(t, err, `driver "nope" not registered`)
}

func TestAnalyzeRowCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := AnalyzeRow(ctx, channel1Row)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeRowUsesContextLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	ctx := options.WithLogger(context.Background(), logger)

	_, err := AnalyzeRow(ctx, "{160}aaaaaaaaaaaa2dd4553107a40280acbf787f0848")
	require.Error(t, err)
	require.Equal(t, "Checksum error: e8 96", hook.LastEntry().Message)
	require.Equal(t, wh55.Name, hook.LastEntry().Data["decoder"])
}
