package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"gridcal/internal/capture"
	"gridcal/internal/config"
	"gridcal/internal/grid"
	"gridcal/internal/ics"
	appLog "gridcal/internal/log"
	"gridcal/internal/metric"
	"gridcal/internal/model"
	"gridcal/internal/notify"
	"gridcal/internal/preview"
	"gridcal/internal/store"
	"gridcal/internal/view"
	"gridcal/internal/web"
)

const version = "0.1.0"

type flagConfig struct {
	configPath string
	listen     string
	once       bool
	dump       bool
	view       string
	date       string
}

func main() {
	if err := run(); err != nil {
		appLog.Error("gridcal failed", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		appLog.Warn("failed to load .env", "error", err)
	}

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", flags.configPath, err)
	}
	conf.ApplyEnv()
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	loc, err := conf.Location()
	if err != nil {
		return err
	}

	appLog.Info("gridcal starting", "version", version)
	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", loc.String(),
		"default_view", conf.DefaultView,
		"sample_data", conf.SampleData,
		"seed_ics", conf.SeedICS != "",
		"metrics", conf.Metrics,
		"preview", conf.Preview.Enabled,
		"once", flags.once,
		"dump", flags.dump,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := func() time.Time { return time.Now().In(loc) }

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := metric.New(reg)

	events := store.New()
	if conf.SampleData {
		events.Seed(store.SampleEvents(clock()), "sample")
	}
	if conf.SeedICS != "" {
		n, err := ics.NewLoader().Seed(ctx, conf.SeedICS, loc, events)
		if err != nil {
			appLog.Error("ics seed failed", err)
		} else {
			appLog.Info("ics seed imported", "added", n)
		}
	}
	metrics.Events(events.Len())

	if flags.dump {
		return dumpView(events, clock(), conf.DefaultView, flags)
	}

	server := web.NewServer(conf, web.Deps{
		Store:         events,
		Notifications: notify.NewCenter(notify.Samples(events.Events(), clock())),
		Metrics:       metrics,
		Gatherer:      reg,
		Clock:         clock,
		Location:      loc,
	})

	runner, err := newPreviewRunner(conf, metrics)
	if err != nil {
		return err
	}

	if flags.once {
		return runOnce(ctx, server, runner)
	}

	if conf.Preview.Enabled {
		if err := runner.Start(ctx); err != nil {
			return err
		}
		defer runner.Stop()
	}

	err = server.ListenAndServe(ctx)
	appLog.Info("gridcal exiting")
	return err
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./gridcal.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Capture one preview PNG and exit")
	flag.BoolVar(&cfg.dump, "dump", false, "Print the view model as JSON and exit")
	flag.StringVar(&cfg.view, "view", "", "View for -dump: day, week or month (default from config)")
	flag.StringVar(&cfg.date, "date", "", `Anchor date for -dump, e.g. 2024-01-10 or "next friday"`)

	flag.Parse()

	return cfg
}

func dumpView(events *store.Store, now time.Time, mode model.ViewMode, flags flagConfig) error {
	if flags.view != "" {
		m, ok := model.ParseViewMode(strings.ToLower(flags.view))
		if !ok {
			return fmt.Errorf("unknown view %q", flags.view)
		}
		mode = m
	}
	anchor, err := grid.ParseAnchor(flags.date, now)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(view.Build(events.Events(), anchor, now, mode))
}

func newPreviewRunner(conf *config.Config, metrics *metric.Recorder) (*preview.Runner, error) {
	return preview.NewRunner(preview.Options{
		Schedule: conf.Preview.Cron,
		Capture: capture.Options{
			URL:    localURL(conf.Listen) + "/calendar?mode=month",
			Width:  conf.Preview.Width,
			Height: conf.Preview.Height,
		},
		OutputPath: conf.Preview.OutputPath,
	}, nil, metrics)
}

// runOnce serves the page just long enough to capture it once.
func runOnce(ctx context.Context, server *web.Server, runner *preview.Runner) error {
	serveCtx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe(serveCtx) }()

	// Give the listener a moment to bind.
	select {
	case err := <-errCh:
		cancel()
		return err
	case <-time.After(300 * time.Millisecond):
	}

	captureErr := runner.RunOnce(ctx)
	cancel()
	if err := <-errCh; err != nil {
		return err
	}
	return captureErr
}

// localURL turns a listen address into a URL the capture browser can reach.
func localURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}
