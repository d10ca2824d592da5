package mqttout

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/snewz/rtl-433/internal/options"
	"github.com/snewz/rtl-433/internal/records"
)

type message struct {
	topic   string
	retain  bool
	payload []byte
}

type fakeToken struct{ err error }

func (fakeToken) Wait() bool                     { return true }
func (fakeToken) WaitTimeout(time.Duration) bool { return true }
func (fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type fakeClient struct {
	sent []message
	err  error
}

func (c *fakeClient) Publish(topic string, _ byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, message{topic: topic, retain: retained, payload: payload.([]byte)})
	return fakeToken{err: c.err}
}

func record() records.Record {
	return records.Record{
		{Key: "model", Value: "Fineoffset-wh55"},
		{Key: "id", Label: "ID", Format: "%06x", Value: uint32(0x107a4)},
		{Key: "channel", Label: "Channel", Value: 4},
		{Key: "battery_ok", Label: "Battery Level", Format: "%.1f", Value: 1.0},
		{Key: "alarm", Label: "Alarm", Value: 1},
	}
}

func TestDeviceTopic(t *testing.T) {
	require.Equal(t, "rtl_433/host/devices/Fineoffset-wh55/4/0107a4", DeviceTopic("rtl_433/host", record()))
	require.Equal(t, "base/devices", DeviceTopic("base", nil))
}

func TestPublish(t *testing.T) {
	c := &fakeClient{}
	p := New(c, "", true, nil)
	require.NoError(t, p.Publish(record()))

	require.Len(t, c.sent, 3)
	require.Equal(t, "rtl_433/events", c.sent[0].topic)
	require.False(t, c.sent[0].retain)
	var event map[string]any
	require.NoError(t, json.Unmarshal(c.sent[0].payload, &event))
	require.Equal(t, "0107a4", event["id"])
	require.Equal(t, 1.0, event["battery_ok"])

	require.Equal(t, "rtl_433/devices/Fineoffset-wh55/4/0107a4/battery_ok", c.sent[1].topic)
	require.Equal(t, "1.0", string(c.sent[1].payload))
	require.True(t, c.sent[1].retain)
	require.Equal(t, "rtl_433/devices/Fineoffset-wh55/4/0107a4/alarm", c.sent[2].topic)
	require.Equal(t, "1", string(c.sent[2].payload))
}

func TestPublishError(t *testing.T) {
	c := &fakeClient{err: errors.New("not connected")}
	err := New(c, "rtl_433", false, nil).Publish(record())
	require.ErrorContains(t, err, "not connected")
	require.Len(t, c.sent, 1)
}

func TestConnectRequiresBroker(t *testing.T) {
	_, err := Connect(options.MQTT{}, nil)
	require.Error(t, err)
}
