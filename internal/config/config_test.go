package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/aberth/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[solver]
max_iterations = 250
tolerance = 1e-12
workers = 4

[cache]
backend = "redis"
ttl = "90m"
redis_url = "redis://cache:6379/1"

[server]
addr = "127.0.0.1:9000"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.MaxIterations != 250 || cfg.Solver.Tolerance != 1e-12 || cfg.Solver.Workers != 4 {
		t.Errorf("solver = %+v", cfg.Solver)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.RedisURL != "redis://cache:6379/1" {
		t.Errorf("redis_url = %q", cfg.Cache.RedisURL)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if lvl, _ := cfg.Log.ParseLevel(); lvl != log.DebugLevel {
		t.Errorf("level = %v", lvl)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[solver]\nworkers = 2\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Defaults()
	want.Solver.Workers = 2
	if cfg != want {
		t.Errorf("Load = %+v, want %+v", cfg, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "[solver]\nmax_iter = 5\n"},
		{"unknown table", "[plotting]\nwidth = 3\n"},
		{"syntax", "[solver\n"},
		{"bad duration", "[cache]\nttl = \"soon\"\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"zero iterations", "[solver]\nmax_iterations = -1\n"},
		{"negative tolerance", "[solver]\ntolerance = -1.0\n"},
		{"negative workers", "[solver]\nworkers = -1\n"},
		{"bad level", "[log]\nlevel = \"loud\"\n"},
		{"redis without url", "[cache]\nbackend = \"redis\"\nredis_url = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %s, want INVALID_CONFIG (%v)", errors.GetCode(err), err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvPath, "")

	if got := Resolve("/explicit.toml"); got != "/explicit.toml" {
		t.Errorf("explicit: got %q", got)
	}

	// XDG file absent
	if got := Resolve(""); got != "" {
		t.Errorf("no file: got %q", got)
	}

	xdg := filepath.Join(dir, "aberth", "config.toml")
	if err := os.MkdirAll(filepath.Dir(xdg), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xdg, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Resolve(""); got != xdg {
		t.Errorf("xdg: got %q, want %q", got, xdg)
	}

	t.Setenv(EnvPath, "/from/env.toml")
	if got := Resolve(""); got != "/from/env.toml" {
		t.Errorf("env: got %q", got)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1h30m")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 90*time.Minute {
		t.Errorf("got %v", d.Duration)
	}
	out, _ := d.MarshalText()
	if string(out) != "1h30m0s" {
		t.Errorf("MarshalText = %s", out)
	}
}
