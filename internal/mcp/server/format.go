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
	"strings"
	"text/template"

	"github.com/tombee/rechtsbron/internal/rechtspraak"
)

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

// searchResultTmpl renders a case list for tool output.
var searchResultTmpl = template.Must(template.New("search").Funcs(templateFuncs).Parse(
	`Found {{len .Records}} case(s) for "{{.Query}}".
{{- range .Records}}

{{.ECLI}} [{{.Weight}}]
  {{.Title}}
  {{.Court}}{{if .Date}}, {{.Date}}{{end}}{{if .Subjects}}
  Subjects: {{join .Subjects ", "}}{{end}}
  {{.DetailURL}}
{{- end}}
`))

// caseDetailTmpl renders one case in full.
var caseDetailTmpl = template.Must(template.New("detail").Funcs(templateFuncs).Parse(
	`{{.ECLI}}
Title:            {{.Title}}
Court:            {{.Court}}
Date:             {{if .Date}}{{.Date}}{{else}}unknown{{end}}
Precedent weight: {{.Weight}}
{{- if .CaseNumber}}
Case number:      {{.CaseNumber}}
{{- end}}
{{- if .Subjects}}
Subjects:         {{join .Subjects ", "}}
{{- end}}
Link:             {{.DetailURL}}
{{- if .Summary}}

Summary:
{{.Summary}}
{{- end}}
`))

type searchView struct {
	Query   string
	Records []rechtspraak.CaseRecord
}

// formatSearchResults renders records as readable tool output.
func formatSearchResults(query string, records []rechtspraak.CaseRecord) (string, error) {
	var sb strings.Builder
	if err := searchResultTmpl.Execute(&sb, searchView{Query: query, Records: records}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// formatCaseDetail renders one record in full.
func formatCaseDetail(record rechtspraak.CaseRecord) (string, error) {
	var sb strings.Builder
	if err := caseDetailTmpl.Execute(&sb, record); err != nil {
		return "", err
	}
	return sb.String(), nil
}
