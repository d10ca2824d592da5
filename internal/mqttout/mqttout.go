// Package mqttout publishes decoded records to an MQTT broker using the
// rtl_433 topic layout: JSON events on <base>/events and one
// value per field on <base>/devices/<model>/<channel>/<id>/<field>.
package mqttout

import (
	"encoding/json"
	"fmt"
	"path"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/snewz/rtl-433/internal/options"
	"github.com/snewz/rtl-433/internal/records"
)

const (
	publishTimeout = 5 * time.Second
	connectTimeout = 10 * time.Second
)

type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher writes records to a broker.
type Publisher struct {
	client client
	base   string
	retain bool
	log    logrus.FieldLogger
	close  func()
}

// Connect dials the broker configured in opts.
func Connect(opts options.MQTT, log logrus.FieldLogger) (*Publisher, error) {
	if opts.Broker == "" {
		return nil, fmt.Errorf("mqtt: broker not configured")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	co := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	co.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.WithError(err).Warn("mqtt connection lost")
	})
	c := mqtt.NewClient(co)
	tok := c.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt: connect to %s timed out", opts.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", opts.Broker, err)
	}
	log.WithField("broker", opts.Broker).Info("mqtt connected")
	p := New(c, opts.Topic, opts.Retain, log)
	p.close = func() { c.Disconnect(250) }
	return p, nil
}

// New wraps an already connected client.
func New(c client, base string, retain bool, log logrus.FieldLogger) *Publisher {
	if base == "" {
		base = "rtl_433"
	}
	return &Publisher{client: c, base: base, retain: retain, log: log}
}

// Publish sends rec as one JSON event and as per-field device values.
func (p *Publisher) Publish(rec records.Record) error {
	event, err := json.Marshal(rec.Map())
	if err != nil {
		return fmt.Errorf("mqtt: encode event: %w", err)
	}
	if err := p.send(path.Join(p.base, "events"), event, false); err != nil {
		return err
	}
	device := DeviceTopic(p.base, rec)
	for _, f := range rec {
		switch f.Key {
		case "model", "channel", "id":
			continue
		}
		if err := p.send(path.Join(device, f.Key), []byte(f.String()), p.retain); err != nil {
			return err
		}
	}
	return nil
}

// Close disconnects a publisher created by Connect.
func (p *Publisher) Close() {
	if p.close != nil {
		p.close()
	}
}

// DeviceTopic returns <base>/devices[/model][/channel][/id].
func DeviceTopic(base string, rec records.Record) string {
	topic := path.Join(base, "devices")
	for _, key := range []string{"model", "channel", "id"} {
		for _, f := range rec {
			if f.Key == key {
				topic = path.Join(topic, f.String())
			}
		}
	}
	return topic
}

func (p *Publisher) send(topic string, payload []byte, retain bool) error {
	tok := p.client.Publish(topic, 0, retain, payload)
	if !tok.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt: publish %s timed out", topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", topic, err)
	}
	if p.log != nil {
		p.log.WithField("topic", topic).Trace("published")
	}
	return nil
}
