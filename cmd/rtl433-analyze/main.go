package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/snewz/rtl-433/internal/driver"
	"github.com/snewz/rtl-433/internal/metrics"
	"github.com/snewz/rtl-433/internal/mqttout"
	"github.com/snewz/rtl-433/internal/options"
	"github.com/snewz/rtl-433/pkg/rtl433"
)

var (
	rootCmd = &cobra.Command{
		Use:   "rtl433-analyze [row]",
		Short: "Decode demodulated sensor bit rows",
		Long: "rtl433-analyze decodes demodulated bit rows, written as {N}hex or plain hex,\n" +
			"with the built-in sensor drivers. Without an argument rows are read from stdin.",
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}

	configPath    string
	verbosity     int
	format        string
	driverNames   []string
	mqttBroker    string
	mqttTopic     string
	metricsListen string
	listDrivers   bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.CountVarP(&verbosity, "verbose", "v", "increase decoder verbosity (-v debug, -vv trace)")
	flags.StringVar(&format, "format", "", "output format: json or kv")
	flags.StringSliceVar(&driverNames, "driver", nil, "restrict decoding to these drivers")
	flags.StringVar(&mqttBroker, "mqtt", "", "publish records to this MQTT broker, e.g. tcp://localhost:1883")
	flags.StringVar(&mqttTopic, "mqtt-topic", "", "MQTT base topic")
	flags.StringVar(&metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address")
	flags.BoolVar(&listDrivers, "list", false, "print driver metadata and exit")
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

type analyzer struct {
	opts      options.Options
	analyze   rtl433.AnalyzeOptions
	publisher *mqttout.Publisher
	out       io.Writer
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	logrus.SetLevel(opts.LogLevel())
	log := logrus.StandardLogger()
	ctx := options.WithLogger(cmd.Context(), log)

	registry := rtl433.DefaultRegistry()
	if listDrivers {
		return printDrivers(cmd.OutOrStdout(), registry.Drivers())
	}

	a := &analyzer{
		opts:    opts,
		analyze: rtl433.AnalyzeOptions{Registry: registry, Drivers: opts.Drivers},
		out:     cmd.OutOrStdout(),
	}
	if opts.Metrics.Listen != "" {
		m := metrics.New()
		a.analyze.Observer = m
		srv := &http.Server{Addr: opts.Metrics.Listen, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
		defer srv.Close()
	}
	if opts.MQTT.Broker != "" {
		pub, err := mqttout.Connect(opts.MQTT, log)
		if err != nil {
			return err
		}
		defer pub.Close()
		a.publisher = pub
	}

	if len(args) == 0 {
		return a.runInteractive(ctx, cmd.InOrStdin())
	}
	return a.runAnalyze(ctx, args[0])
}

func loadOptions(cmd *cobra.Command) (options.Options, error) {
	opts, err := options.Load(configPath)
	if err != nil {
		return options.Options{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		opts.Verbosity = verbosity
	}
	if flags.Changed("format") {
		opts.Format = format
	}
	if flags.Changed("driver") {
		opts.Drivers = driverNames
	}
	if flags.Changed("mqtt") {
		opts.MQTT.Broker = mqttBroker
	}
	if flags.Changed("mqtt-topic") {
		opts.MQTT.Topic = mqttTopic
	}
	if flags.Changed("metrics-listen") {
		opts.Metrics.Listen = metricsListen
	}
	return opts, opts.Validate()
}

func (a *analyzer) runInteractive(ctx context.Context, in io.Reader) error {
	log := options.Logger(ctx)
	scanner := bufio.NewScanner(in)
	log.Info("rtl433 analyze mode. Paste a bit row ({N}hex) and press Enter (Ctrl+D to exit).")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := a.runAnalyze(ctx, line); err != nil {
			log.WithError(err).Debug("no telegram decoded")
		}
	}
	return scanner.Err()
}

func (a *analyzer) runAnalyze(ctx context.Context, row string) error {
	result, err := rtl433.AnalyzeRowWithOptions(ctx, row, a.analyze)
	if err != nil {
		return err
	}
	if err := a.write(result); err != nil {
		return err
	}
	if a.publisher != nil {
		return a.publisher.Publish(result.Record)
	}
	return nil
}

func (a *analyzer) write(result rtl433.Result) error {
	if a.opts.Format == "kv" {
		_, err := fmt.Fprintf(a.out, "%s  %s\n", result.Driver, result.Record.Text())
		return err
	}
	data, err := json.Marshal(orderedFields(result))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

func printDrivers(out io.Writer, drivers []driver.Driver) error {
	list := make([]driver.Metadata, 0, len(drivers))
	for _, d := range drivers {
		list = append(list, d.Metadata())
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
