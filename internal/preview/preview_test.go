package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"gridcal/internal/capture"
	"gridcal/internal/metric"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	for _, spec := range []string{"@every 1m", "*/15 * * * *", "@hourly", "0 6 * * 1-5"} {
		if err := Validate(spec); err != nil {
			t.Fatalf("Validate(%q) error: %v", spec, err)
		}
	}
	for _, spec := range []string{"", "every minute", "* * *", "61 * * * *"} {
		if err := Validate(spec); err == nil {
			t.Fatalf("Validate(%q) accepted", spec)
		}
	}
}

func TestNewRunner_RejectsBadOptions(t *testing.T) {
	t.Parallel()

	if _, err := NewRunner(Options{Schedule: "nope", OutputPath: "x.png"}, nil, nil); err == nil {
		t.Fatalf("invalid schedule accepted")
	}
	if _, err := NewRunner(Options{Schedule: "@every 1m"}, nil, nil); err == nil {
		t.Fatalf("empty output path accepted")
	}
}

func TestRunOnce(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "preview.png")
	var gotURL string
	fake := func(_ context.Context, opts capture.Options) ([]byte, error) {
		gotURL = opts.URL
		return []byte("png-bytes"), nil
	}

	r, err := NewRunner(Options{
		Schedule:   "@every 1m",
		Capture:    capture.Options{URL: "http://127.0.0.1:8080/calendar?mode=month"},
		OutputPath: out,
	}, fake, metric.New(prometheus.NewRegistry()))
	if err != nil {
		t.Fatal(err)
	}

	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("output = %q, %v", data, err)
	}
	if gotURL != "http://127.0.0.1:8080/calendar?mode=month" {
		t.Fatalf("captured url = %q", gotURL)
	}
	if last, lastErr := r.Last(); last.IsZero() || lastErr != nil {
		t.Fatalf("Last() = %v, %v", last, lastErr)
	}
}

func TestRunOnce_CaptureError(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "preview.png")
	boom := errors.New("no chromium")
	r, err := NewRunner(Options{Schedule: "@every 1m", OutputPath: out},
		func(context.Context, capture.Options) ([]byte, error) { return nil, boom }, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.RunOnce(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("failed capture wrote a file")
	}
	if _, lastErr := r.Last(); !errors.Is(lastErr, boom) {
		t.Fatalf("Last() error = %v", lastErr)
	}
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	r, err := NewRunner(Options{Schedule: "@every 1h", OutputPath: filepath.Join(t.TempDir(), "p.png")},
		func(context.Context, capture.Options) ([]byte, error) { return []byte("x"), nil }, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	r.Stop()
}
