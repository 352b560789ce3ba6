package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level sentinelforge client configuration.
type Config struct {
	Version string        `yaml:"version"`
	Server  ServerConfig  `yaml:"server"`
	Polling PollingConfig `yaml:"polling"`
	Output  OutputConfig  `yaml:"output"`
}

// ServerConfig holds backend connection settings.
type ServerConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PollingConfig holds revalidation intervals for the watch layer.
// ActiveRun applies while a run is queued or running; terminal runs
// stop polling entirely.
type PollingConfig struct {
	ActiveRun time.Duration `yaml:"active_run"`
	RunList   time.Duration `yaml:"run_list"`
	Schedules time.Duration `yaml:"schedules"`
	Health    time.Duration `yaml:"health"`
}

// OutputConfig controls terminal rendering.
type OutputConfig struct {
	Color    bool   `yaml:"color"`
	LogLevel string `yaml:"log_level"`
}

// Defaults returns a config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			URL:     "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Polling: PollingConfig{
			ActiveRun: 5 * time.Second,
			RunList:   10 * time.Second,
			Schedules: 30 * time.Second,
			Health:    30 * time.Second,
		},
		Output: OutputConfig{
			Color:    true,
			LogLevel: "info",
		},
	}
}

// Load reads and parses a client config file, then applies environment
// overrides. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	// Apply zero-value defaults after unmarshal
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Polling.ActiveRun == 0 {
		cfg.Polling.ActiveRun = 5 * time.Second
	}
	if cfg.Polling.RunList == 0 {
		cfg.Polling.RunList = 10 * time.Second
	}
	if cfg.Polling.Schedules == 0 {
		cfg.Polling.Schedules = 30 * time.Second
	}
	if cfg.Polling.Health == 0 {
		cfg.Polling.Health = 30 * time.Second
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadEnvFile loads a .env file into the process environment if present.
// Explicit environment variables win over .env entries.
func LoadEnvFile(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
}

// applyEnv overrides file values with SENTINELFORGE_* variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("SENTINELFORGE_API_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("SENTINELFORGE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Server.Timeout = d
		}
	}
	if v := os.Getenv("SENTINELFORGE_NO_COLOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Output.Color = !b
		}
	}
	if v := os.Getenv("SENTINELFORGE_LOG_LEVEL"); v != "" {
		c.Output.LogLevel = v
	}
}

// Save writes the config to a YAML file at the given path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks that the config is consistent.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server URL: %q", c.Server.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL must use http or https, got %q", u.Scheme)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("negative timeout: %s", c.Server.Timeout)
	}
	for name, d := range map[string]time.Duration{
		"active_run": c.Polling.ActiveRun,
		"run_list":   c.Polling.RunList,
		"schedules":  c.Polling.Schedules,
		"health":     c.Polling.Health,
	} {
		if d < 0 {
			return fmt.Errorf("negative polling interval %s: %s", name, d)
		}
	}
	switch c.Output.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %q", c.Output.LogLevel)
	}
	return nil
}
