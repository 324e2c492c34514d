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
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/rechtsbron/internal/log"
	"github.com/tombee/rechtsbron/internal/rechtspraak"
)

// searchTimeout bounds one orchestrated search, including every detail
// fetch and its retries.
const searchTimeout = 2 * time.Minute

// handleSearch implements the rechtsbron_search tool.
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.rateLimiter.AllowCall() || !s.rateLimiter.AllowSearch() {
		return errorResponse("Rate limit exceeded. Please try again later."), nil
	}

	query, err := request.RequireString("query")
	if err != nil {
		return errorResponse("Missing or invalid 'query' argument"), nil
	}

	criteria := rechtspraak.Criteria{
		Query:      query,
		Court:      request.GetString("court", ""),
		DateFrom:   request.GetString("date_from", ""),
		DateTo:     request.GetString("date_to", ""),
		MaxResults: request.GetInt("max_results", rechtspraak.DefaultMaxResults),
		Subjects:   request.GetStringSlice("subjects", nil),
	}

	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	records, err := s.search.Search(searchCtx, criteria)
	if err != nil {
		s.logger.Error("search failed",
			slog.String(log.ToolKey, "rechtsbron_search"),
			slog.String(log.QueryKey, query),
			log.Error(err),
		)
		return errorResponse(fmt.Sprintf("Search failed: %v", err)), nil
	}

	text, err := formatSearchResults(query, records)
	if err != nil {
		return errorResponse(fmt.Sprintf("Failed to format results: %v", err)), nil
	}
	return textResponse(text), nil
}
