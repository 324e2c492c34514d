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

package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// HealthReport describes server and provider state.
type HealthReport struct {
	Server       string `json:"server"`
	Version      string `json:"version"`
	ProviderBase string `json:"provider_base"`
	CachedBodies int    `json:"cached_payloads"`
}

// handleHealth implements the rechtsbron_health tool.
func (s *Server) handleHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.rateLimiter.AllowCall() {
		return errorResponse("Rate limit exceeded. Please try again later."), nil
	}

	return jsonResponse(HealthReport{
		Server:       s.name,
		Version:      s.version,
		ProviderBase: s.search.BaseURL(),
		CachedBodies: s.search.CacheSize(),
	})
}
