// Package config loads the aberth TOML configuration.
//
// Values resolve in three layers: Defaults, then the config file, then
// command-line flags (applied by the caller). Unknown keys in the file are
// rejected.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/aberth/pkg/aberth"
	"github.com/matzehuels/aberth/pkg/cache"
	"github.com/matzehuels/aberth/pkg/errors"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "ABERTH_CONFIG"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the parsed configuration. It is read-only after Load.
type Config struct {
	Solver Solver `toml:"solver"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

// Solver holds defaults for every solve.
type Solver struct {
	MaxIterations int     `toml:"max_iterations"`
	Tolerance     float64 `toml:"tolerance"`
	Workers       int     `toml:"workers"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend  string   `toml:"backend"`
	TTL      Duration `toml:"ttl"`
	RedisURL string   `toml:"redis_url"`

	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Solver: Solver{
			MaxIterations: aberth.DefaultMaxIterations,
			Tolerance:     aberth.DefaultTolerance,
		},
		Cache: Cache{
			Backend:  BackendFile,
			TTL:      Duration{cache.TTLSolve},
			RedisURL: "redis://localhost:6379/0",
		},
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info"},
	}
}

// Load reads the file at path on top of Defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Resolve picks the config file: explicit wins, then $ABERTH_CONFIG, then
// $XDG_CONFIG_HOME/aberth/config.toml (or ~/.config/aberth/config.toml) if it
// exists. It returns "" when no file applies.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	p := filepath.Join(dir, "aberth", "config.toml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// Validate checks value ranges.
func (c Config) Validate() error {
	opts := aberth.Options{
		MaxIterations: c.Solver.MaxIterations,
		Tolerance:     c.Solver.Tolerance,
		Workers:       c.Solver.Workers,
	}
	if err := opts.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[solver]")
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendRedis}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"[cache] backend must be none, file or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] ttl must not be negative")
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] redis_url is required for the redis backend")
	}
	if _, err := c.Log.ParseLevel(); err != nil {
		return err
	}
	return nil
}

// ParseLevel returns the configured log level.
func (l Log) ParseLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(l.Level)
	if err != nil {
		return lvl, errors.Wrap(errors.ErrCodeInvalidConfig, err, "[log] level")
	}
	return lvl, nil
}
