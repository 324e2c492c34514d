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

package main

import (
	"fmt"
	"log/slog"

	"github.com/tombee/rechtsbron/internal/config"
	"github.com/tombee/rechtsbron/internal/rechtspraak"
)

// buildSearchService wires the provider stack from configuration: client
// registry, transport client for the configured base URL, and the search
// orchestrator on top.
func buildSearchService(cfg *config.Config, logger *slog.Logger, metrics *rechtspraak.Metrics) (*rechtspraak.Service, error) {
	p := cfg.Provider

	registry := rechtspraak.NewRegistry(rechtspraak.ClientConfig{
		Timeout: p.Timeout,
		Retry: rechtspraak.RetryPolicy{
			MaxAttempts: p.RetryAttempts,
			BaseDelay:   p.RetryBaseDelay,
			MaxDelay:    p.RetryMaxDelay,
		},
		CacheTTL:  p.CacheTTL,
		UserAgent: p.UserAgent,
		Logger:    logger,
		Metrics:   metrics,
	})

	client, err := registry.ClientFor(p.SearchBase)
	if err != nil {
		return nil, fmt.Errorf("configuring provider client: %w", err)
	}

	return rechtspraak.NewService(client, rechtspraak.ServiceConfig{
		ViewBase:   p.ViewBase,
		DetailRate: p.DetailRate,
		Logger:     logger,
		Metrics:    metrics,
	}), nil
}
