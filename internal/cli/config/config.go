package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lrevnic/salt/internal/agent"
	"github.com/lrevnic/salt/internal/logging"
	"github.com/lrevnic/salt/internal/snapshot"
)

// Registry sources.
const (
	SourceManifest = agent.SourceManifest
	SourceRedis    = agent.SourceRedis
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// EnvPrefix is prepended to every environment override, e.g. SYSMOD_REDIS_ADDR.
const EnvPrefix = "SYSMOD"

// Config represents the sysmod configuration
type Config struct {
	Source    string         `mapstructure:"source"`
	Format    string         `mapstructure:"format"`
	Log       LogConfig      `mapstructure:"log"`
	Execution RegistryConfig `mapstructure:"execution"`
	State     RegistryConfig `mapstructure:"state"`
	Redis     RedisConfig    `mapstructure:"redis"`
	API       APIConfig      `mapstructure:"api"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RegistryConfig holds the host options of one registry. Dirs are only read
// by the manifest source.
type RegistryConfig struct {
	Dirs []string `mapstructure:"dirs"`
}

// RedisConfig represents Redis connection configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// APIConfig represents HTTP server configuration
type APIConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// AgentOptions returns the host options used to open the registries.
func (c *Config) AgentOptions() agent.Options {
	return agent.Options{
		Source:        c.Source,
		ExecutionDirs: c.Execution.Dirs,
		StateDirs:     c.State.Dirs,
		Redis: snapshot.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		},
	}
}

// Load loads the configuration from configFile, or from sysmod.yml /
// sysmod.yaml in the working directory when configFile is empty. A missing
// default file is not an error; a missing explicit file is.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("source", SourceManifest)
	v.SetDefault("format", FormatTable)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", logging.FormatConsole)
	v.SetDefault("execution.dirs", []string{"modules"})
	v.SetDefault("state.dirs", []string{})
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "sysmod")
	v.SetDefault("api.host", "localhost")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.jwt_secret", "")
	v.SetDefault("api.shutdown_timeout", "10s")

	// Set config name and paths
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("sysmod")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration, including values overridden by flags
// after Load.
func Validate(cfg *Config) error {
	switch cfg.Source {
	case SourceManifest, SourceRedis:
	default:
		return fmt.Errorf("source must be %q or %q, got: %s", SourceManifest, SourceRedis, cfg.Source)
	}

	switch cfg.Format {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("format must be %q or %q, got: %s", FormatTable, FormatJSON, cfg.Format)
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch cfg.Log.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("log.format must be %q or %q, got: %s", logging.FormatConsole, logging.FormatJSON, cfg.Log.Format)
	}

	if cfg.API.Port < 1 || cfg.API.Port > 65535 {
		return fmt.Errorf("api.port must be between 1 and 65535, got: %d", cfg.API.Port)
	}
	if cfg.API.ShutdownTimeout < 0 {
		return fmt.Errorf("api.shutdown_timeout must not be negative, got: %s", cfg.API.ShutdownTimeout)
	}

	if cfg.Source == SourceRedis && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when source is %q", SourceRedis)
	}
	return nil
}
