package capture

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCapturePNG_RequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := CapturePNG(context.Background(), Options{}); !errors.Is(err, ErrNoURL) {
		t.Fatalf("CapturePNG() error = %v, want ErrNoURL", err)
	}
}

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	o, err := Options{URL: "http://127.0.0.1/calendar"}.withDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight || o.Timeout != DefaultTimeout {
		t.Fatalf("defaults = %+v", o)
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "preview.png")
	data := []byte("\x89PNG fake")
	if err := WriteFile(path, data); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("content = %q", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}
