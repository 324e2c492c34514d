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

// Package server implements the MCP server that exposes rechtsbron's
// legal-research operations as tools over stdio.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tombee/rechtsbron/internal/log"
	"github.com/tombee/rechtsbron/internal/rechtspraak"
)

// Server wraps the MCP server and provides the rechtsbron tools.
type Server struct {
	mcpServer   *server.MCPServer
	search      *rechtspraak.Service
	rateLimiter *RateLimiter
	logger      *slog.Logger
	name        string
	version     string
}

// Config configures the MCP server.
type Config struct {
	// Name is the server name (default: "rechtsbron").
	Name string

	// Version is the rechtsbron version.
	Version string

	// Search is the case-law retrieval service. Required.
	Search *rechtspraak.Service

	// Logger receives server events. Default: slog.Default.
	Logger *slog.Logger
}

// NewServer creates a new MCP server instance.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Search == nil {
		return nil, fmt.Errorf("search service is required")
	}
	if cfg.Name == "" {
		cfg.Name = "rechtsbron"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcpServer: server.NewMCPServer(cfg.Name, cfg.Version),
		search:    cfg.Search,
		// Searches hit the remote provider hard (1 + N requests each),
		// so they get a tighter bucket than plain tool calls.
		rateLimiter: NewRateLimiter(20, 120),
		logger:      log.WithComponent(logger, "mcp"),
		name:        cfg.Name,
		version:     cfg.Version,
	}
	s.registerTools()
	return s, nil
}

// registerTools registers all rechtsbron tools with the MCP server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rechtsbron_search",
		Description: "Search Dutch case law. Returns case metadata with precedent weight and detail links. Results are capped at 50 cases.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text search query",
				},
				"court": map[string]interface{}{
					"type":        "string",
					"description": "Filter by issuing body (e.g., 'Hoge Raad')",
				},
				"date_from": map[string]interface{}{
					"type":        "string",
					"description": "Earliest decision date, YYYY-MM-DD",
				},
				"date_to": map[string]interface{}{
					"type":        "string",
					"description": "Latest decision date, YYYY-MM-DD",
				},
				"max_results": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum cases to retrieve (default 10, hard cap 50)",
				},
				"subjects": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Filter by legal-area tags",
				},
			},
			Required: []string{"query"},
		},
	}, s.handleSearch)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rechtsbron_case_details",
		Description: "Fetch full metadata for one case by its ECLI identifier.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"ecli": map[string]interface{}{
					"type":        "string",
					"description": "Case identifier (e.g., 'ECLI:NL:HR:2023:123')",
				},
			},
			Required: []string{"ecli"},
		},
	}, s.handleCaseDetails)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rechtsbron_gdpr_check",
		Description: "Screen a described processing activity against GDPR rules. Returns findings with article references. Not legal advice.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Description of the processing activity",
				},
			},
			Required: []string{"description"},
		},
	}, s.handleGDPRCheck)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rechtsbron_ai_act_check",
		Description: "Classify a described AI system into an EU AI Act risk tier with the matching obligations. Not legal advice.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Description of the AI system and its purpose",
				},
			},
			Required: []string{"description"},
		},
	}, s.handleAIActCheck)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rechtsbron_health",
		Description: "Report server version, provider endpoint, and cache statistics.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleHealth)
}

// Run starts the MCP server on stdio and blocks until the transport
// closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting rechtsbron MCP server", slog.String("version", s.version))
	return s.serve(ctx, os.Stdin, os.Stdout)
}

// serve runs the stdio transport on the given streams. Cancellation of
// ctx is a clean shutdown, not an error.
func (s *Server) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

// errorResponse creates a tool error result. Tool failures are reported
// in-band, never as protocol errors.
func errorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

// textResponse creates a successful text result.
func textResponse(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}
