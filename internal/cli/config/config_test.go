package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestLoad(t *testing.T) {
	// Test loading with no config file (should use defaults)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config to be non-nil")
	}

	// Check defaults
	if cfg.Source != SourceManifest {
		t.Errorf("expected default source %q, got %q", SourceManifest, cfg.Source)
	}

	if cfg.Format != FormatTable {
		t.Errorf("expected default format %q, got %q", FormatTable, cfg.Format)
	}

	if !reflect.DeepEqual(cfg.Execution.Dirs, []string{"modules"}) {
		t.Errorf("expected default execution dirs [modules], got %v", cfg.Execution.Dirs)
	}

	if len(cfg.State.Dirs) != 0 {
		t.Errorf("expected state registry to be unconfigured by default, got %v", cfg.State.Dirs)
	}

	if cfg.API.Addr() != "localhost:8080" {
		t.Errorf("expected default api addr 'localhost:8080', got %s", cfg.API.Addr())
	}

	if cfg.API.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected default shutdown timeout 10s, got %s", cfg.API.ShutdownTimeout)
	}

	if cfg.Redis.Prefix != "sysmod" {
		t.Errorf("expected default redis prefix 'sysmod', got %s", cfg.Redis.Prefix)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	// Create temporary directory with config file
	chdir(t, t.TempDir())

	configContent := `
source: redis
format: json
log:
  level: debug
  format: json
execution:
  dirs:
    - /srv/salt/_modules
state:
  dirs:
    - /srv/salt/_states
redis:
  addr: redis:6379
  prefix: minion1
api:
  host: 0.0.0.0
  port: 9090
  jwt_secret: s3cret
  shutdown_timeout: 3s
`
	os.WriteFile("sysmod.yml", []byte(configContent), 0644)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.Source != SourceRedis {
		t.Errorf("expected source redis, got %s", cfg.Source)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("expected json debug logging, got %+v", cfg.Log)
	}

	if !reflect.DeepEqual(cfg.State.Dirs, []string{"/srv/salt/_states"}) {
		t.Errorf("expected state dirs [/srv/salt/_states], got %v", cfg.State.Dirs)
	}

	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.Prefix != "minion1" {
		t.Errorf("unexpected redis config %+v", cfg.Redis)
	}

	if cfg.API.Addr() != "0.0.0.0:9090" {
		t.Errorf("expected api addr '0.0.0.0:9090', got %s", cfg.API.Addr())
	}

	opts := cfg.AgentOptions()
	if opts.Source != SourceRedis || opts.Redis.Addr != "redis:6379" || opts.Redis.Prefix != "minion1" {
		t.Errorf("unexpected agent options %+v", opts)
	}
	if !reflect.DeepEqual(opts.StateDirs, []string{"/srv/salt/_states"}) {
		t.Errorf("expected agent state dirs from config, got %v", opts.StateDirs)
	}

	if cfg.API.JWTSecret != "s3cret" {
		t.Errorf("expected jwt secret to be loaded, got %q", cfg.API.JWTSecret)
	}

	if cfg.API.ShutdownTimeout != 3*time.Second {
		t.Errorf("expected shutdown timeout 3s, got %s", cfg.API.ShutdownTimeout)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, t.TempDir())

	path := filepath.Join(dir, "custom.yaml")
	os.WriteFile(path, []byte("format: json\n"), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("expected format json, got %s", cfg.Format)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SYSMOD_SOURCE", "redis")
	t.Setenv("SYSMOD_REDIS_ADDR", "cache:6380")
	t.Setenv("SYSMOD_API_PORT", "7070")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Source != SourceRedis {
		t.Errorf("expected source from env, got %s", cfg.Source)
	}
	if cfg.Redis.Addr != "cache:6380" {
		t.Errorf("expected redis addr from env, got %s", cfg.Redis.Addr)
	}
	if cfg.API.Port != 7070 {
		t.Errorf("expected api port from env, got %d", cfg.API.Port)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	chdir(t, t.TempDir())
	os.WriteFile("sysmod.yml", []byte("source: [unclosed\n"), 0644)

	if _, err := Load(""); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Source: SourceManifest,
			Format: FormatTable,
			Log:    LogConfig{Level: "info", Format: "console"},
			Redis:  RedisConfig{Addr: "localhost:6379"},
			API:    APIConfig{Host: "localhost", Port: 8080},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown source", mutate: func(c *Config) { c.Source = "etcd" }, wantErr: "source must be"},
		{name: "unknown format", mutate: func(c *Config) { c.Format = "yaml" }, wantErr: "format must be"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "chatty" }, wantErr: "log.level"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "logfmt" }, wantErr: "log.format must be"},
		{name: "port too low", mutate: func(c *Config) { c.API.Port = 0 }, wantErr: "api.port"},
		{name: "port too high", mutate: func(c *Config) { c.API.Port = 70000 }, wantErr: "api.port"},
		{name: "negative timeout", mutate: func(c *Config) { c.API.ShutdownTimeout = -time.Second }, wantErr: "api.shutdown_timeout"},
		{
			name: "redis without addr",
			mutate: func(c *Config) {
				c.Source = SourceRedis
				c.Redis.Addr = ""
			},
			wantErr: "redis.addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
