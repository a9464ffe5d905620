// Package config loads the command-line tool settings from a YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adamwoolhether/assinafy/client"
	"github.com/adamwoolhether/assinafy/internal/validate"
)

// Environment variables overriding the file.
const (
	EnvConfig    = "ASSINAFY_CONFIG"
	EnvToken     = "ASSINAFY_TOKEN"
	EnvAccountID = "ASSINAFY_ACCOUNT_ID"
	EnvBaseURL   = "ASSINAFY_BASE_URL"
	EnvTimeout   = "ASSINAFY_TIMEOUT"
)

// Config holds the settings used to build an API client.
type Config struct {
	Token     string        `yaml:"token" validate:"required"`
	AccountID string        `yaml:"account_id"`
	BaseURL   string        `yaml:"base_url" validate:"omitempty,url"`
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	Throttle  Throttle      `yaml:"throttle"`
}

// Throttle enables client-side rate limiting when RPS is set.
type Throttle struct {
	RPS   int `yaml:"rps" validate:"gte=0"`
	Burst int `yaml:"burst" validate:"gte=0"`
}

// Load reads path, falling back to $ASSINAFY_CONFIG, then applies the
// environment overrides and validates the result. No file at all is fine as
// long as the environment supplies a token.
func Load(path string) (Config, error) {
	cfg := Config{Timeout: 30 * time.Second}

	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}

		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := validate.Check(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvToken); ok {
		c.Token = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvAccountID); ok {
		c.AccountID = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvBaseURL); ok {
		c.BaseURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}

	return nil
}

// ClientOptions translates the config into client options. Token is left
// to the caller.
func (c Config) ClientOptions() ([]client.Option, error) {
	var opts []client.Option

	if c.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(c.BaseURL))
	}
	if c.AccountID != "" {
		opts = append(opts, client.WithDefaultAccount(c.AccountID))
	}
	if c.Timeout > 0 {
		opts = append(opts, client.WithTimeout(c.Timeout))
	}

	switch {
	case c.Throttle.RPS > 0:
		burst := max(c.Throttle.Burst, 1)
		opts = append(opts, client.WithThrottle(c.Throttle.RPS, burst))
	case c.Throttle.Burst > 0:
		return nil, errors.New("throttle burst set without rps")
	}

	return opts, nil
}
