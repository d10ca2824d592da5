// Package options holds the analyzer configuration and the context helpers
// used to carry the logger into the decode path.
package options

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Options configures the analyzer CLI.
type Options struct {
	Verbosity int      `yaml:"verbosity"`
	Format    string   `yaml:"format"`
	Drivers   []string `yaml:"drivers,flow"`
	MQTT      MQTT     `yaml:"mqtt"`
	Metrics   Metrics  `yaml:"metrics"`
}

// MQTT configures record publishing. An empty Broker disables it.
type MQTT struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Retain   bool   `yaml:"retain"`
}

// Metrics configures the Prometheus endpoint. An empty Listen disables it.
type Metrics struct {
	Listen string `yaml:"listen"`
}

// Default returns the built-in configuration.
func Default() Options {
	return Options{
		Format: "json",
		MQTT: MQTT{
			Topic:    "rtl_433",
			ClientID: "rtl433-analyze",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns Default().
func Load(path string) (Options, error) {
	opts := Default()
	if strings.TrimSpace(path) == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate rejects settings the analyzer cannot honour.
func (o Options) Validate() error {
	switch o.Format {
	case "json", "kv":
	default:
		return fmt.Errorf("unsupported output format %q (want json or kv)", o.Format)
	}
	if o.Verbosity < 0 {
		return fmt.Errorf("verbosity must not be negative, got %d", o.Verbosity)
	}
	return nil
}

// LogLevel maps rtl_433 verbosity tiers onto logrus levels.
func (o Options) LogLevel() logrus.Level {
	switch {
	case o.Verbosity <= 0:
		return logrus.InfoLevel
	case o.Verbosity == 1:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

type contextKey struct{}

// WithLogger stores the logger inside the context.
func WithLogger(ctx context.Context, log logrus.FieldLogger) context.Context {
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, log)
}

// Logger retrieves the logger from context, falling back to the standard
// logrus logger.
func Logger(ctx context.Context) logrus.FieldLogger {
	if v := ctx.Value(contextKey{}); v != nil {
		if log, ok := v.(logrus.FieldLogger); ok {
			return log
		}
	}
	return logrus.StandardLogger()
}
