package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"gridcal/internal/model"
)

const envPrefix = "GRIDCAL"

// PreviewConfig controls the scheduled PNG capture of the month page.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Cron accepts the standard five fields or descriptors such as
	// "@every 1m" and "@hourly".
	Cron string `yaml:"cron" json:"cron"`

	OutputPath string `yaml:"output_path" json:"output_path"`
	Width      int    `yaml:"width" json:"width"`
	Height     int    `yaml:"height" json:"height"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the web UI and API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone every calendar date is read in
	// (e.g. "Europe/Berlin"). Empty means the host's local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// DefaultView is the view shown when a request names none.
	DefaultView model.ViewMode `yaml:"default_view" json:"default_view"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// SampleData seeds the demo events relative to the start time.
	SampleData bool `yaml:"sample_data" json:"sample_data"`

	// SeedICS is an .ics file path or http(s) URL imported once at startup.
	SeedICS string `yaml:"seed_ics" json:"seed_ics"`

	// Metrics exposes /metrics.
	Metrics bool `yaml:"metrics" json:"metrics"`

	Preview PreviewConfig `yaml:"preview" json:"preview"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		DefaultView: model.ViewMonth,
		LogLevel:    "info",
		SampleData:  true,
		Metrics:     true,
		Preview: PreviewConfig{
			Cron:       "@every 1m",
			OutputPath: "./var/preview.png",
			Width:      1280,
			Height:     960,
		},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled files still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if _, ok := model.ParseViewMode(string(c.DefaultView)); !ok {
		c.DefaultView = def.DefaultView
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Preview.Cron == "" {
		c.Preview.Cron = def.Preview.Cron
	}
	if c.Preview.OutputPath == "" {
		c.Preview.OutputPath = def.Preview.OutputPath
	}
	if c.Preview.Width <= 0 {
		c.Preview.Width = def.Preview.Width
	}
	if c.Preview.Height <= 0 {
		c.Preview.Height = def.Preview.Height
	}
	if c.BasicAuth != nil && c.BasicAuth.Username == "" && c.BasicAuth.Password == "" {
		c.BasicAuth = nil
	}
}

// Location resolves Timezone. An empty zone is the host's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ApplyEnv overrides fields from GRIDCAL_* environment variables. Variables
// that are not set leave the file's value alone.
func (c *Config) ApplyEnv() {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	_ = v.BindEnv("listen")
	_ = v.BindEnv("timezone")
	_ = v.BindEnv("default_view")
	_ = v.BindEnv("log_level")
	_ = v.BindEnv("seed_ics")
	_ = v.BindEnv("sample_data")
	_ = v.BindEnv("metrics")

	if v.IsSet("listen") {
		c.Listen = strings.TrimSpace(v.GetString("listen"))
	}
	if v.IsSet("timezone") {
		c.Timezone = strings.TrimSpace(v.GetString("timezone"))
	}
	if v.IsSet("default_view") {
		c.DefaultView = model.ViewMode(strings.ToLower(strings.TrimSpace(v.GetString("default_view"))))
	}
	if v.IsSet("log_level") {
		c.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("seed_ics") {
		c.SeedICS = strings.TrimSpace(v.GetString("seed_ics"))
	}
	if v.IsSet("sample_data") {
		c.SampleData = v.GetBool("sample_data")
	}
	if v.IsSet("metrics") {
		c.Metrics = v.GetBool("metrics")
	}
	c.Normalize()
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms (parent directory created as needed) and returned.
//   - Otherwise the YAML is read and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".gridcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
