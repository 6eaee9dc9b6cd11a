package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/curbz/notam-composer/internal/config"
	"github.com/curbz/notam-composer/internal/console"
	"github.com/curbz/notam-composer/internal/dictionary"
	"github.com/curbz/notam-composer/internal/logger"
	"github.com/curbz/notam-composer/internal/metrics"
	"github.com/curbz/notam-composer/internal/notam"
	"github.com/curbz/notam-composer/internal/session"
	"github.com/curbz/notam-composer/pkg/icao"
	"github.com/curbz/notam-composer/pkg/util"
)

const defaultConfigFile = "config.yaml"

// assignments collects repeated key=value flags.
type assignments []string

func (a *assignments) String() string {
	return strings.Join(*a, ",")
}

func (a *assignments) Set(v string) error {
	*a = append(*a, v)
	return nil
}

type options struct {
	configPath  string
	template    string
	sets        assignments
	details     assignments
	schedules   assignments
	export      string
	interactive bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to the YAML configuration (default "+defaultConfigFile+" when present)")
	flag.StringVar(&opts.template, "template", "", "template key to start from")
	flag.Var(&opts.sets, "set", "field=value, repeatable")
	flag.Var(&opts.details, "detail", "detail=value, repeatable")
	flag.Var(&opts.schedules, "schedule", "frequency|startTime|endTime=value, repeatable")
	flag.StringVar(&opts.export, "export", "", "also write the record as txt, json or yaml")
	flag.BoolVar(&opts.interactive, "interactive", false, "start the interactive console")
	flag.Parse()

	if opts.configPath == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			opts.configPath = defaultConfigFile
		}
	}
	return opts
}

func main() {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log)

	if err := run(cfg, opts); err != nil {
		logger.Log.Fatalf("FATAL: %v", err)
	}
}

func run(cfg *config.Config, opts options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewRegistry()
	defer writeMetrics(cfg, m)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		logger.Log.Info("Interrupt received, shutting down")
		cancel()
		writeMetrics(cfg, m)
		os.Exit(130)
	}()

	dict, err := dictionary.Load(ctx, cfg.Composer.DictionaryFile, cfg.Composer.AirportsFile)
	if err != nil {
		return err
	}

	registry := session.NewRegistry(dict, cfg.Composer.SessionIdleTimeout, m)
	s := registry.Create()

	if err := prepare(s, m, opts); err != nil {
		return err
	}

	if !opts.interactive {
		fmt.Println(s.FinalNotam())
		m.CompositionsTotal.Inc()

		if opts.export == "" {
			return nil
		}
		format, err := notam.ParseExportFormat(opts.export)
		if err != nil {
			return err
		}
		path, err := notam.WriteExport(cfg.Composer.ExportDirectory, s.Record(), format)
		if err != nil {
			return err
		}
		m.ExportsTotal.WithLabelValues(string(format)).Inc()
		util.LogWithLabel(s.ID, "exported %s", path)
		return nil
	}

	if spec := cfg.Composer.DictionaryReloadSchedule; spec != "" {
		watcher := dictionary.NewWatcher(dict, spec)
		watcher.OnReload = m.RecordReload
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	c := console.New(console.Options{
		Sessions:   registry,
		Dictionary: dict,
		Metrics:    m,
		ExportDir:  cfg.Composer.ExportDirectory,
		Session:    s,
	}, os.Stdout)

	if err := c.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// prepare applies the template and then the flag assignments to s. The
// template goes first because loading one resets the record.
func prepare(s *notam.Session, m *metrics.Registry, opts options) error {
	if opts.template != "" {
		hit := s.LoadTemplate(opts.template)
		m.RecordTemplateLoad(hit)
		if !hit {
			return fmt.Errorf("unknown template %q", opts.template)
		}
	}

	for _, a := range opts.sets {
		name, value, err := util.SplitAssignment(a)
		if err != nil {
			return fmt.Errorf("-set: %w", err)
		}
		field, err := notam.ParseField(name)
		if err != nil {
			return err
		}
		if field == notam.FieldLocation {
			value = icao.NormalizeLocation(value)
			if !icao.IsLocationIndicator(value) {
				logger.Log.Warnf("%q is not a four letter location indicator", value)
			}
		}
		if err := s.UpdateField(field, value); err != nil {
			return err
		}
		m.MutationsTotal.WithLabelValues("field").Inc()
	}

	for _, a := range opts.schedules {
		name, value, err := util.SplitAssignment(a)
		if err != nil {
			return fmt.Errorf("-schedule: %w", err)
		}
		field, err := notam.ParseScheduleField(name)
		if err != nil {
			return err
		}
		if err := s.UpdateScheduleField(field, value); err != nil {
			return err
		}
		m.MutationsTotal.WithLabelValues("schedule").Inc()
	}

	for _, a := range opts.details {
		name, raw, err := util.SplitAssignment(a)
		if err != nil {
			return fmt.Errorf("-detail: %w", err)
		}
		field, err := notam.ParseDetailField(name)
		if err != nil {
			return err
		}
		value, err := console.ParseDetailValue(field, raw)
		if err != nil {
			return err
		}
		if err := s.UpdateDetailField(field, value); err != nil {
			return err
		}
		m.MutationsTotal.WithLabelValues("detail").Inc()
	}
	return nil
}

func writeMetrics(cfg *config.Config, m *metrics.Registry) {
	path := cfg.Composer.MetricsTextfile
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		logger.Log.Errorf("%v", err)
	}
}
