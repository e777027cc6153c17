// Package config loads service and decoder settings from a YAML or TOML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/boleto/internal/boleto"
	"github.com/mmynk/boleto/pkg/logging"
)

// Config is the complete application configuration.
type Config struct {
	Server  Server  `yaml:"server" toml:"server"`
	Auth    Auth    `yaml:"auth" toml:"auth"`
	Log     Log     `yaml:"log" toml:"log"`
	DueDate DueDate `yaml:"due_date" toml:"due_date"`
	Batch   Batch   `yaml:"batch" toml:"batch"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// Auth configures bearer tokens issued to scanner devices.
type Auth struct {
	// JWTSecret signs and verifies tokens. Required when Required is true.
	JWTSecret string `yaml:"jwt_secret" toml:"jwt_secret"`

	// Required rejects unauthenticated decode calls.
	Required bool `yaml:"required" toml:"required"`

	// TokenTTL is how long issued tokens stay valid, e.g. "720h".
	TokenTTL string `yaml:"token_ttl" toml:"token_ttl"`
}

// Log configures the tint handler.
type Log struct {
	Level string `yaml:"level" toml:"level"`
}

// DueDate selects the epoch used to resolve due-date factors. Either Preset
// names one of the built-in epochs, or Epoch and BaseFactor give a custom one.
type DueDate struct {
	Preset     string `yaml:"preset" toml:"preset"`
	Epoch      string `yaml:"epoch" toml:"epoch"` // YYYY-MM-DD
	BaseFactor *int   `yaml:"base_factor" toml:"base_factor"`
}

// Batch configures the batch command.
type Batch struct {
	Workers int `yaml:"workers" toml:"workers"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Auth:   Auth{TokenTTL: "720h"},
		Log:    Log{Level: "info"},
		DueDate: DueDate{
			Preset: "default",
		},
		Batch: Batch{Workers: 4},
	}
}

// Load reads path on top of the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("failed to parse TOML config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

// ApplyEnv overrides file values with BOLETO_ADDR, BOLETO_JWT_SECRET,
// BOLETO_REQUIRE_AUTH, BOLETO_DUE_DATE_PRESET and LOG_LEVEL when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("BOLETO_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("BOLETO_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("BOLETO_REQUIRE_AUTH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Auth.Required = b
		}
	}
	if v := os.Getenv("BOLETO_DUE_DATE_PRESET"); v != "" {
		c.DueDate = DueDate{Preset: v}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Auth.Required && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required when auth.required is set"))
	}
	if _, err := c.Auth.TTL(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.DueDate.Resolve(); err != nil {
		errs = append(errs, err)
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, errors.New("batch.workers must be at least 1"))
	}
	return errors.Join(errs...)
}

// TTL parses TokenTTL.
func (a Auth) TTL() (time.Duration, error) {
	d, err := time.ParseDuration(a.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("auth.token_ttl: %w", err)
	}
	if d <= 0 {
		return 0, errors.New("auth.token_ttl must be positive")
	}
	return d, nil
}

// Resolve returns the configured epoch. A custom Epoch date takes precedence
// over Preset.
func (d DueDate) Resolve() (boleto.Epoch, error) {
	if d.Epoch == "" {
		if d.BaseFactor != nil {
			return boleto.Epoch{}, errors.New("due_date.base_factor requires due_date.epoch")
		}
		preset := d.Preset
		if preset == "" {
			preset = "default"
		}
		return boleto.EpochPreset(preset)
	}

	date, err := time.Parse(time.DateOnly, d.Epoch)
	if err != nil {
		return boleto.Epoch{}, fmt.Errorf("due_date.epoch: %w", err)
	}
	base := int(boleto.DefaultEpoch.BaseFactor)
	if d.BaseFactor != nil {
		base = *d.BaseFactor
	}
	if base < 0 || base > 9999 {
		return boleto.Epoch{}, fmt.Errorf("due_date.base_factor must be within 0-9999, got %d", base)
	}
	return boleto.Epoch{Date: date, BaseFactor: uint16(base)}, nil
}
