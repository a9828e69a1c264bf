package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/qbank/internal/audit"
	"github.com/abhisek/qbank/internal/curate"
)

// Config holds all qbank configuration.
type Config struct {
	Audit   audit.Config  `yaml:"audit"`
	Curate  curate.Config `yaml:"curate"`
	Logging LoggingConfig `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	// Path overrides the default database location.
	Path string `yaml:"path"`

	// Disabled skips recording run history.
	Disabled bool `yaml:"disabled"`
}

// Default returns a Config with every package default applied.
func Default() Config {
	return Config{
		Audit:  audit.DefaultConfig(),
		Curate: curate.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path (if path is
// non-empty), then environment overrides. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode overlays YAML onto cfg. Unknown keys are rejected so typos in
// threshold names do not silently fall back to defaults.
func decode(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv applies QBANK_* environment overrides.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("QBANK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("QBANK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("QBANK_CURATE_TARGET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QBANK_CURATE_TARGET: %w", err)
		}
		cfg.Curate.Target = n
	}
	if v := os.Getenv("QBANK_CURATE_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("QBANK_CURATE_SEED: %w", err)
		}
		cfg.Curate.Seed = &n
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	if err := c.Curate.Validate(); err != nil {
		return fmt.Errorf("curate: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging: unknown format %q", c.Logging.Format)
	}
	return nil
}
