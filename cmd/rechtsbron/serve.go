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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tombee/rechtsbron/internal/config"
	"github.com/tombee/rechtsbron/internal/log"
	"github.com/tombee/rechtsbron/internal/mcp/server"
	"github.com/tombee/rechtsbron/internal/rechtspraak"
)

// newServeCommand creates the serve command.
func newServeCommand() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the rechtsbron MCP server on stdio",
		Long: `Start the rechtsbron MCP (Model Context Protocol) server.

The server runs in stdio mode, which is how AI assistants launch MCP
servers from their configuration. Logs go to stderr so they never mix
with the protocol stream on stdout.

Configuration example for an MCP client:
  {
    "mcpServers": {
      "rechtsbron": {
        "command": "rechtsbron",
        "args": ["serve"]
      }
    }
  }

The server exposes these tools:
  - rechtsbron_search: Search Dutch case law
  - rechtsbron_case_details: Fetch one case by ECLI
  - rechtsbron_gdpr_check: Screen a processing activity against GDPR
  - rechtsbron_ai_act_check: Classify an AI system's EU AI Act risk tier
  - rechtsbron_health: Report server and cache status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address (e.g., 127.0.0.1:9464)")

	return cmd
}

func runServe(metricsAddr string) error {
	logger := log.New(log.FromEnv())
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}

	var metrics *rechtspraak.Metrics
	if cfg.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		metrics = rechtspraak.NewMetrics(registry)
		go serveMetrics(cfg.MetricsAddr, registry, logger)
	}

	search, err := buildSearchService(cfg, logger, metrics)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(server.Config{
		Name:    "rechtsbron",
		Version: version,
		Search:  search,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", slog.String("signal", sig.String()))
		cancel()
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	}
}

// serveMetrics exposes the Prometheus registry over HTTP. Failures are
// logged, not fatal: metrics are an operator convenience, the MCP
// transport keeps running without them.
func serveMetrics(addr string, registry *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("serving metrics", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics listener failed", log.Error(err))
	}
}
