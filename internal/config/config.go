// Package config builds the server configuration once at startup. Values are
// layered: built-in defaults, then an optional YAML or TOML file, then
// environment variables. Command-line flags are applied last by the caller.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvHost     = "HOST"
	EnvPort     = "PORT"
	EnvRoot     = "PUBLIC_DIR"
	EnvLogLevel = "FILESERVER_LOG_LEVEL"
	EnvMetrics  = "METRICS_ENABLED"
)

const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 3000
)

// Config is the immutable server configuration handed to the handler.
type Config struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	Root     string `yaml:"root" toml:"root"`
	LogLevel string `yaml:"log_level" toml:"log_level"`
	Metrics  bool   `yaml:"metrics" toml:"metrics"`
}

// Default returns the built-in configuration: all interfaces, port 3000,
// and a "public" directory next to the running executable.
func Default() Config {
	return Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		Root:     DefaultRoot(),
		LogLevel: "info",
	}
}

// DefaultRoot is the "public" directory beside the executable, or beside
// the working directory when the executable path cannot be determined.
func DefaultRoot() string {
	dir := "."
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir = filepath.Dir(exe)
	}
	return filepath.Join(dir, "public")
}

// Load builds a Config from defaults, the optional file at path, and the
// process environment. The result is not validated: callers layer flags on
// top and call Validate once on the final value.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile overlays the YAML (.yaml, .yml) or TOML (.toml) file at path.
// Keys absent from the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q (want .yaml, .yml or .toml)", ext)
	}

	// A relative root in a file is relative to the file, not the cwd.
	if c.Root != "" && !filepath.IsAbs(c.Root) {
		c.Root = filepath.Join(filepath.Dir(path), c.Root)
	}
	return nil
}

// ApplyEnv overlays non-empty environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvHost); v != "" {
		c.Host = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Port = port
	}
	if v := getenv(EnvRoot); v != "" {
		c.Root = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvMetrics); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMetrics, v, err)
		}
		c.Metrics = enabled
	}
	return nil
}

// Validate checks ranges and makes Root absolute and clean.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if c.Root == "" {
		return fmt.Errorf("root directory must not be empty")
	}
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return fmt.Errorf("resolve root %s: %w", c.Root, err)
	}
	c.Root = root

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", c.LogLevel)
	}
	return nil
}

// EnsureRoot creates the served root (and parents) if it does not exist.
func (c *Config) EnsureRoot() error {
	if err := os.MkdirAll(c.Root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Root, err)
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("stat root %s: %w", c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", c.Root)
	}
	return nil
}

// Addr is the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
