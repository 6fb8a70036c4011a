package config

import (
	"os"
	"path/filepath"
	"testing"

	"gridcal/internal/model"
)

func TestLoad_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Listen != "127.0.0.1:8080" || cfg.DefaultView != model.ViewMonth || cfg.Preview.Cron != "@every 1m" {
		t.Fatalf("default config = %+v", cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if again.Listen != cfg.Listen || again.SampleData != cfg.SampleData {
		t.Fatalf("reloaded = %+v", again)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
listen: ":9090"
timezone: Asia/Tokyo
default_view: fortnight
sample_data: false
preview:
  enabled: true
  width: 800
basic_auth:
  username: ""
  password: ""
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Listen != ":9090" || cfg.Timezone != "Asia/Tokyo" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.DefaultView != model.ViewMonth {
		t.Fatalf("unknown default view not normalized: %q", cfg.DefaultView)
	}
	if cfg.SampleData {
		t.Fatalf("sample_data: false was ignored")
	}
	if !cfg.Preview.Enabled || cfg.Preview.Width != 800 || cfg.Preview.Height != 960 || cfg.Preview.Cron != "@every 1m" {
		t.Fatalf("preview = %+v", cfg.Preview)
	}
	if cfg.BasicAuth != nil {
		t.Fatalf("empty basic auth must disable auth")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load() accepted broken YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GRIDCAL_LISTEN", "0.0.0.0:7000")
	t.Setenv("GRIDCAL_DEFAULT_VIEW", "Week")
	t.Setenv("GRIDCAL_SAMPLE_DATA", "false")
	t.Setenv("GRIDCAL_SEED_ICS", " ./seed.ics ")
	t.Setenv("GRIDCAL_LOG_LEVEL", "DEBUG")

	cfg := DefaultConfig()
	cfg.Timezone = "Europe/Berlin"
	cfg.ApplyEnv()

	if cfg.Listen != "0.0.0.0:7000" || cfg.DefaultView != model.ViewWeek {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.SampleData {
		t.Fatalf("GRIDCAL_SAMPLE_DATA=false ignored")
	}
	if cfg.SeedICS != "./seed.ics" || cfg.LogLevel != "debug" {
		t.Fatalf("seed %q level %q", cfg.SeedICS, cfg.LogLevel)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Fatalf("unset variable overrode timezone: %q", cfg.Timezone)
	}
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	if loc, err := cfg.Location(); err != nil || loc == nil {
		t.Fatalf("empty timezone: %v %v", loc, err)
	}

	cfg.Timezone = "UTC"
	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("UTC: %v %v", loc, err)
	}

	cfg.Timezone = "Mars/Olympus_Mons"
	if _, err := cfg.Location(); err == nil {
		t.Fatalf("unknown zone accepted")
	}
}
