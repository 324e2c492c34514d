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
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/rechtsbron/internal/compliance"
)

// handleGDPRCheck implements the rechtsbron_gdpr_check tool.
func (s *Server) handleGDPRCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.rateLimiter.AllowCall() {
		return errorResponse("Rate limit exceeded. Please try again later."), nil
	}

	description, err := request.RequireString("description")
	if err != nil {
		return errorResponse("Missing or invalid 'description' argument"), nil
	}

	return jsonResponse(compliance.AssessGDPR(description))
}

// handleAIActCheck implements the rechtsbron_ai_act_check tool.
func (s *Server) handleAIActCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.rateLimiter.AllowCall() {
		return errorResponse("Rate limit exceeded. Please try again later."), nil
	}

	description, err := request.RequireString("description")
	if err != nil {
		return errorResponse("Missing or invalid 'description' argument"), nil
	}

	return jsonResponse(compliance.AssessAIAct(description))
}

// jsonResponse marshals a report as indented JSON tool output.
func jsonResponse(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResponse(fmt.Sprintf("Failed to encode report: %v", err)), nil
	}
	return textResponse(string(data)), nil
}
