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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultSearchBase, cfg.Provider.SearchBase)
	assert.Equal(t, DefaultViewBase, cfg.Provider.ViewBase)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Provider.CacheTTL)
	assert.Equal(t, 3, cfg.Provider.RetryAttempts)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rechtsbron.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  search_base: https://mirror.example/uitspraken
  cache_ttl: 90s
metrics_addr: 127.0.0.1:9464
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://mirror.example/uitspraken", cfg.Provider.SearchBase)
	assert.Equal(t, 90*time.Second, cfg.Provider.CacheTTL)
	assert.Equal(t, DefaultViewBase, cfg.Provider.ViewBase, "unset fields keep defaults")
	assert.Equal(t, "127.0.0.1:9464", cfg.MetricsAddr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rechtsbron.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  search_base: https://file.example/uitspraken
`), 0o600))

	t.Setenv(EnvSearchBase, "https://env.example/uitspraken")
	t.Setenv(EnvViewBase, "https://view.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example/uitspraken", cfg.Provider.SearchBase)
	assert.Equal(t, "https://view.example", cfg.Provider.ViewBase)
}

func TestLoad_MissingFileIsOptional(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchBase, cfg.Provider.SearchBase)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [not: a map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty search base", func(c *Config) { c.Provider.SearchBase = "" }},
		{"empty view base", func(c *Config) { c.Provider.ViewBase = "" }},
		{"zero timeout", func(c *Config) { c.Provider.Timeout = 0 }},
		{"zero cache ttl", func(c *Config) { c.Provider.CacheTTL = 0 }},
		{"zero retry attempts", func(c *Config) { c.Provider.RetryAttempts = 0 }},
		{"max delay below base", func(c *Config) {
			c.Provider.RetryBaseDelay = time.Second
			c.Provider.RetryMaxDelay = time.Millisecond
		}},
		{"zero detail rate", func(c *Config) { c.Provider.DetailRate = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
