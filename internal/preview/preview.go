// Package preview periodically captures the calendar page as a PNG file.
package preview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"gridcal/internal/capture"
	appLog "gridcal/internal/log"
	"gridcal/internal/metric"
)

// CaptureFunc produces the PNG bytes for one preview.
type CaptureFunc func(ctx context.Context, opts capture.Options) ([]byte, error)

type Options struct {
	// Schedule is a standard cron expression or descriptor ("@every 1m").
	Schedule   string
	Capture    capture.Options
	OutputPath string
}

// Runner writes a fresh preview on every tick of its schedule. Overlapping
// ticks are skipped while a capture is still running.
type Runner struct {
	opts    Options
	capture CaptureFunc
	metrics *metric.Recorder

	cron *cron.Cron

	mu      sync.Mutex
	running bool
	last    time.Time
	lastErr error
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate reports whether spec is an accepted schedule.
func Validate(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("preview: schedule %q: %w", spec, err)
	}
	return nil
}

// NewRunner checks the schedule; capture defaults to capture.CapturePNG.
func NewRunner(opts Options, fn CaptureFunc, metrics *metric.Recorder) (*Runner, error) {
	if err := Validate(opts.Schedule); err != nil {
		return nil, err
	}
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("preview: output path is empty")
	}
	if fn == nil {
		fn = capture.CapturePNG
	}
	return &Runner{
		opts:    opts,
		capture: fn,
		metrics: metrics,
		cron:    cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}, nil
}

// RunOnce captures and writes a single preview.
func (r *Runner) RunOnce(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		appLog.Debug("preview capture already running, skipped")
		return nil
	}
	r.running = true
	r.mu.Unlock()

	start := time.Now()
	err := r.runOnce(ctx)
	r.metrics.Capture(err)

	r.mu.Lock()
	r.running = false
	r.last = time.Now()
	r.lastErr = err
	r.mu.Unlock()

	if err != nil {
		appLog.Error("preview capture failed", err, "url", r.opts.Capture.URL)
		return err
	}
	appLog.Info("preview written", "path", r.opts.OutputPath, "took", time.Since(start).Round(time.Millisecond))
	return nil
}

func (r *Runner) runOnce(ctx context.Context) error {
	png, err := r.capture(ctx, r.opts.Capture)
	if err != nil {
		return err
	}
	return capture.WriteFile(r.opts.OutputPath, png)
}

// Start schedules RunOnce until ctx is done or Stop is called.
func (r *Runner) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.opts.Schedule, func() {
		_ = r.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("preview: schedule: %w", err)
	}
	r.cron.Start()
	appLog.Info("preview scheduler started", "schedule", r.opts.Schedule, "output", r.opts.OutputPath)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
	return nil
}

// Stop halts the schedule and waits for a running capture to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

// Last returns when the previous capture finished and its error.
func (r *Runner) Last() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.lastErr
}
