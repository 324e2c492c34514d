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
	"testing"

	"github.com/tombee/rechtsbron/internal/rechtspraak"
)

func sampleRecord() rechtspraak.CaseRecord {
	return rechtspraak.CaseRecord{
		ECLI:       "ECLI:NL:HR:2023:123",
		Title:      "Appellant tegen de Staat",
		Court:      "Hoge Raad",
		Date:       "2023-05-12",
		Subjects:   []string{"Staatsrecht", "Grondrechten"},
		Weight:     rechtspraak.WeightHigh,
		DetailURL:  "https://uitspraken.example.nl/details?id=ECLI%3ANL%3AHR%3A2023%3A123",
		Summary:    "Beroep in cassatie gegrond.",
		CaseNumber: "22/01234",
	}
}

func TestFormatSearchResults(t *testing.T) {
	records := []rechtspraak.CaseRecord{
		sampleRecord(),
		{
			ECLI:      "ECLI:NL:RBAMS:2024:99",
			Title:     "ECLI:NL:RBAMS:2024:99",
			Court:     rechtspraak.UnknownCourt,
			Weight:    rechtspraak.WeightLow,
			DetailURL: "https://uitspraken.example.nl/details?id=ECLI%3ANL%3ARBAMS%3A2024%3A99",
		},
	}

	out, err := formatSearchResults("cassatie", records)
	if err != nil {
		t.Fatalf("formatSearchResults() failed: %v", err)
	}

	for _, want := range []string{
		`Found 2 case(s) for "cassatie".`,
		"ECLI:NL:HR:2023:123 [high]",
		"Hoge Raad, 2023-05-12",
		"Subjects: Staatsrecht, Grondrechten",
		"ECLI:NL:RBAMS:2024:99 [low]",
		"Unknown Court",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, out)
		}
	}
	// The second record has no date, so no trailing comma after the court.
	if strings.Contains(out, "Unknown Court,") {
		t.Errorf("dateless record should not render a trailing comma\noutput:\n%s", out)
	}
}

func TestFormatSearchResults_Empty(t *testing.T) {
	out, err := formatSearchResults("niets", nil)
	if err != nil {
		t.Fatalf("formatSearchResults() failed: %v", err)
	}
	if !strings.Contains(out, `Found 0 case(s) for "niets".`) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestFormatCaseDetail(t *testing.T) {
	out, err := formatCaseDetail(sampleRecord())
	if err != nil {
		t.Fatalf("formatCaseDetail() failed: %v", err)
	}

	for _, want := range []string{
		"ECLI:NL:HR:2023:123",
		"Title:            Appellant tegen de Staat",
		"Court:            Hoge Raad",
		"Date:             2023-05-12",
		"Precedent weight: high",
		"Case number:      22/01234",
		"Subjects:         Staatsrecht, Grondrechten",
		"Beroep in cassatie gegrond.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestFormatCaseDetail_SparseRecord(t *testing.T) {
	record := rechtspraak.CaseRecord{
		ECLI:      "ECLI:NL:RBDHA:2024:1",
		Title:     "ECLI:NL:RBDHA:2024:1",
		Court:     rechtspraak.UnknownCourt,
		Weight:    rechtspraak.WeightLow,
		DetailURL: "https://uitspraken.example.nl/details?id=ECLI%3ANL%3ARBDHA%3A2024%3A1",
	}

	out, err := formatCaseDetail(record)
	if err != nil {
		t.Fatalf("formatCaseDetail() failed: %v", err)
	}
	if !strings.Contains(out, "Date:             unknown") {
		t.Errorf("missing date should render as unknown\noutput:\n%s", out)
	}
	for _, absent := range []string{"Case number:", "Subjects:", "Summary:"} {
		if strings.Contains(out, absent) {
			t.Errorf("sparse record should not render %q\noutput:\n%s", absent, out)
		}
	}
}
