// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads rechtsbron settings with the precedence
// defaults < YAML file < environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by Load.
const (
	// EnvSearchBase overrides the provider's search/content base URL.
	EnvSearchBase = "RECHTSBRON_SEARCH_BASE"
	// EnvViewBase overrides the human-readable decision site.
	EnvViewBase = "RECHTSBRON_VIEW_BASE"
)

// Default provider origins, as documented by the open-data service.
const (
	DefaultSearchBase = "https://data.rechtspraak.nl/uitspraken"
	DefaultViewBase   = "https://uitspraken.rechtspraak.nl"
)

// Config is the full rechtsbron configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`

	// MetricsAddr, when set, exposes Prometheus metrics on this address
	// (e.g., "127.0.0.1:9464"). Empty disables the listener.
	MetricsAddr string `yaml:"metrics_addr"`
}

// ProviderConfig configures the remote case-law provider.
type ProviderConfig struct {
	// SearchBase is the base URL of the search and content endpoints.
	SearchBase string `yaml:"search_base"`

	// ViewBase is the base URL of the human-readable decision pages.
	ViewBase string `yaml:"view_base"`

	// Timeout bounds each request attempt.
	Timeout time.Duration `yaml:"timeout"`

	// CacheTTL is how long responses are served from the in-memory cache.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// RetryAttempts is the total attempt budget, including the first try.
	RetryAttempts int `yaml:"retry_attempts"`

	// RetryBaseDelay seeds the exponential backoff.
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`

	// RetryMaxDelay caps the backoff.
	RetryMaxDelay time.Duration `yaml:"retry_max_delay"`

	// DetailRate paces detail fetches, in fetches per second.
	DetailRate float64 `yaml:"detail_rate"`

	// UserAgent is sent on every provider request.
	UserAgent string `yaml:"user_agent"`
}

// Default returns the production defaults.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			SearchBase:     DefaultSearchBase,
			ViewBase:       DefaultViewBase,
			Timeout:        10 * time.Second,
			CacheTTL:       5 * time.Minute,
			RetryAttempts:  3,
			RetryBaseDelay: 500 * time.Millisecond,
			RetryMaxDelay:  5 * time.Second,
			DetailRate:     5,
			UserAgent:      "rechtsbron/1.0",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty or the file does not exist), then
// environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// optional file
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	if base := os.Getenv(EnvSearchBase); base != "" {
		cfg.Provider.SearchBase = base
	}
	if base := os.Getenv(EnvViewBase); base != "" {
		cfg.Provider.ViewBase = base
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that would misbehave at
// runtime.
func (c *Config) Validate() error {
	p := c.Provider
	if p.SearchBase == "" {
		return fmt.Errorf("provider.search_base must not be empty")
	}
	if p.ViewBase == "" {
		return fmt.Errorf("provider.view_base must not be empty")
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("provider.timeout must be > 0, got %v", p.Timeout)
	}
	if p.CacheTTL <= 0 {
		return fmt.Errorf("provider.cache_ttl must be > 0, got %v", p.CacheTTL)
	}
	if p.RetryAttempts < 1 {
		return fmt.Errorf("provider.retry_attempts must be >= 1, got %d", p.RetryAttempts)
	}
	if p.RetryBaseDelay <= 0 {
		return fmt.Errorf("provider.retry_base_delay must be > 0, got %v", p.RetryBaseDelay)
	}
	if p.RetryMaxDelay < p.RetryBaseDelay {
		return fmt.Errorf("provider.retry_max_delay (%v) must be >= retry_base_delay (%v)",
			p.RetryMaxDelay, p.RetryBaseDelay)
	}
	if p.DetailRate <= 0 {
		return fmt.Errorf("provider.detail_rate must be > 0, got %v", p.DetailRate)
	}
	return nil
}
