// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Probe modes.
const (
	ProbeCompiler = "compiler" // compile and link a test program
	ProbeFS       = "fs"       // look for header and library files only
)

// RegistryEnv overrides Config.RegistryDir when set.
const RegistryEnv = "BUILDENV_REGISTRY"

// DefaultProbeTimeout bounds one compiler invocation.
const DefaultProbeTimeout = 30 * time.Second

// Config holds buildenv configuration
type Config struct {
	Compiler     string        `yaml:"compiler"`
	ProbeMode    string        `yaml:"probe_mode"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	Parallel     int           `yaml:"parallel"`
	RegistryDir  string        `yaml:"registry_dir"`
	RegistryURL  string        `yaml:"registry_url"`
	CacheDir     string        `yaml:"cache_dir"`
	ExtraRoots   []string      `yaml:"extra_roots,omitempty"`
	LogFile      string        `yaml:"log_file"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
	Debug        bool          `yaml:"debug"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cache := getDefaultCacheDir()
	return &Config{
		Compiler:     "", // Auto-detect
		ProbeMode:    ProbeCompiler,
		ProbeTimeout: DefaultProbeTimeout,
		Parallel:     1,
		CacheDir:     cache,
		RegistryDir:  filepath.Join(cache, "deps"),
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// DefaultPath returns ~/.config/buildenv/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "buildenv", "config.yaml"), nil
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults. Fields left out of the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			cfg.applyEnv()
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if dir := os.Getenv(RegistryEnv); dir != "" {
		c.RegistryDir = dir
	}
}

// Validate rejects values the resolver cannot work with.
func (c *Config) Validate() error {
	switch c.ProbeMode {
	case "", ProbeCompiler, ProbeFS:
	default:
		return fmt.Errorf("config: unknown probe_mode %q (want %q or %q)", c.ProbeMode, ProbeCompiler, ProbeFS)
	}
	if c.ProbeTimeout < 0 {
		return fmt.Errorf("config: probe_timeout must not be negative")
	}
	if c.Parallel < 0 {
		return fmt.Errorf("config: parallel must not be negative")
	}
	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func getDefaultCacheDir() string {
	if path := os.Getenv("BUILDENV_CACHE"); path != "" {
		return path
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "buildenv")
	}

	return filepath.Join(dir, "buildenv")
}
