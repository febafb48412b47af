// Package config loads distortviz settings from a TOML file. Command-line
// flags override whatever the file sets.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/distortviz/pkg/distortion"
	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/httputil"
	"github.com/matzehuels/distortviz/pkg/layout"
	"github.com/matzehuels/distortviz/pkg/snapshot"
)

// Config holds distortviz configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Distortion DistortionConfig `toml:"distortion"`
	Params     ParamsConfig     `toml:"params"`
	Layout     layout.Config    `toml:"layout"`
	Cache      CacheConfig      `toml:"cache"`
	Snapshots  SnapshotConfig   `toml:"snapshots"`
}

// ServerConfig controls the web front end.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

// DistortionConfig points at the external distortion service.
type DistortionConfig struct {
	URL     string          `toml:"url"`
	Timeout time.Duration   `toml:"timeout"`
	Retry   httputil.Policy `toml:"retry"`
}

// ParamsConfig holds the initial k and measure.
type ParamsConfig struct {
	K       int    `toml:"k" validate:"min=1"`
	Measure string `toml:"measure" validate:"required"`
}

// CacheConfig selects the distortion response cache.
type CacheConfig struct {
	Backend  string        `toml:"backend" validate:"oneof=none file redis"`
	Dir      string        `toml:"dir"` // file backend; empty means the user cache dir
	RedisURL string        `toml:"redis_url" validate:"required_if=Backend redis"`
	TTL      time.Duration `toml:"ttl"`
}

// SnapshotConfig selects where saved views go.
type SnapshotConfig struct {
	Backend string               `toml:"backend" validate:"oneof=memory file mongo"`
	Dir     string               `toml:"dir"` // file backend
	Mongo   snapshot.MongoConfig `toml:"mongo"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: "localhost:8080"},
		Distortion: DistortionConfig{
			URL:     "http://localhost:8081/GraphServlet",
			Timeout: httputil.DefaultTimeout,
			Retry:   httputil.Policy{Attempts: 1, Delay: time.Second},
		},
		Params:    ParamsConfig{K: 1, Measure: distortion.DefaultMeasure},
		Layout:    layout.DefaultConfig(),
		Cache:     CacheConfig{Backend: "none", TTL: 24 * time.Hour},
		Snapshots: SnapshotConfig{Backend: "file"},
	}
}

// Validate checks backend names and required fields.
func (c *Config) Validate() error {
	return distortion.Validate(c)
}

// DistortionParams returns the initial request parameters.
func (c *Config) DistortionParams() distortion.Params {
	p := distortion.DefaultParams()
	p.K = c.Params.K
	p.Measure = c.Params.Measure
	return p
}

// ConfigDir returns the distortviz config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "distortviz")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads path, or the default path when empty, over the defaults. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeFileRead, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, or the default path when empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
