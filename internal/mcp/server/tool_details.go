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
)

// detailTimeout bounds one detail fetch, including retries.
const detailTimeout = 45 * time.Second

// handleCaseDetails implements the rechtsbron_case_details tool.
func (s *Server) handleCaseDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.rateLimiter.AllowCall() {
		return errorResponse("Rate limit exceeded. Please try again later."), nil
	}

	ecli, err := request.RequireString("ecli")
	if err != nil {
		return errorResponse("Missing or invalid 'ecli' argument"), nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, detailTimeout)
	defer cancel()

	record, err := s.search.GetDetails(fetchCtx, ecli)
	if err != nil {
		s.logger.Warn("case detail lookup failed",
			slog.String(log.ToolKey, "rechtsbron_case_details"),
			slog.String(log.ECLIKey, ecli),
			log.Error(err),
		)
		return errorResponse(fmt.Sprintf("No retrievable details for %s: %v", ecli, err)), nil
	}

	text, err := formatCaseDetail(record)
	if err != nil {
		return errorResponse(fmt.Sprintf("Failed to format case: %v", err)), nil
	}
	return textResponse(text), nil
}
