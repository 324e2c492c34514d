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
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/rechtsbron/internal/config"
	"github.com/tombee/rechtsbron/internal/log"
	"github.com/tombee/rechtsbron/internal/rechtspraak"
)

// newSearchCommand creates the search command, a one-shot query for
// exercising the provider integration without an MCP client.
func newSearchCommand() *cobra.Command {
	var (
		court      string
		dateFrom   string
		dateTo     string
		maxResults int
		subjects   []string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a one-shot case-law search",
		Long: `Search Dutch case law from the command line and print the mapped
records. This is a debugging aid for the provider integration; the MCP
tools expose the same operation to AI assistants.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := rechtspraak.Criteria{
				Query:      args[0],
				Court:      court,
				DateFrom:   dateFrom,
				DateTo:     dateTo,
				MaxResults: maxResults,
				Subjects:   subjects,
			}
			return runSearch(cmd, criteria, asJSON)
		},
	}

	cmd.Flags().StringVar(&court, "court", "", "Filter by issuing body (e.g., 'Hoge Raad')")
	cmd.Flags().StringVar(&dateFrom, "from", "", "Earliest decision date, YYYY-MM-DD")
	cmd.Flags().StringVar(&dateTo, "to", "", "Latest decision date, YYYY-MM-DD")
	cmd.Flags().IntVar(&maxResults, "max", rechtspraak.DefaultMaxResults, "Maximum cases to retrieve")
	cmd.Flags().StringSliceVar(&subjects, "subject", nil, "Filter by legal-area tag (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, criteria rechtspraak.Criteria, asJSON bool) error {
	logger := log.New(log.FromEnv())
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	search, err := buildSearchService(cfg, logger, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	records, err := search.Search(ctx, criteria)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if asJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding records: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Found %d case(s)\n", len(records))
	for _, r := range records {
		cmd.Printf("\n%s [%s]\n", r.ECLI, r.Weight)
		cmd.Printf("  %s\n", r.Title)
		line := r.Court
		if r.Date != "" {
			line += ", " + r.Date
		}
		cmd.Printf("  %s\n", line)
		if len(r.Subjects) > 0 {
			cmd.Printf("  Subjects: %s\n", strings.Join(r.Subjects, ", "))
		}
		cmd.Printf("  %s\n", r.DetailURL)
	}
	return nil
}
