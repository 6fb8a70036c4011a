package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{in: "debug", want: LevelDebug},
		{in: " WARN ", want: LevelWarn},
		{in: "warning", want: LevelWarn},
		{in: "Error", want: LevelError},
		{in: "info", want: LevelInfo},
		{in: "verbose", want: LevelInfo},
		{in: "", want: LevelInfo},
	}

	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Fatalf("ParseLevel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, true)
	SetLevel(LevelWarn)
	defer SetLevel(LevelInfo)

	Info("hidden message")
	Warn("shown warning", "key", "value")
	Error("shown error", errors.New("boom"), "id", 7)

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	for _, want := range []string{"shown warning", "key=value", "shown error", "boom", "id=7"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output %q", want, out)
		}
	}
}
