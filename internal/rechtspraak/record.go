package rechtspraak

import (
	"strings"
	"time"
)

// PrecedentWeight classifies how much authority a decision carries.
type PrecedentWeight string

const (
	// WeightHigh marks decisions of the highest-authority body.
	WeightHigh PrecedentWeight = "high"
	// WeightMedium marks appellate decisions and first-instance
	// decisions touching constitutional or supranational law.
	WeightMedium PrecedentWeight = "medium"
	// WeightLow marks everything else.
	WeightLow PrecedentWeight = "low"
)

// UnknownCourt is the documented fallback when a detail payload carries
// no issuing body. Sparse provider data is expected; the drop is counted
// rather than failing the record.
const UnknownCourt = "Unknown Court"

// CaseRecord is one decision's metadata. Records are constructed once per
// successful detail fetch and immutable afterwards; they are never
// persisted.
type CaseRecord struct {
	// ECLI is the provider-native case citation.
	ECLI string `json:"ecli"`

	// Title is the decision title, falling back to the ECLI.
	Title string `json:"title"`

	// Court is the issuing body, falling back to UnknownCourt.
	Court string `json:"court"`

	// Date is the decision date normalized to YYYY-MM-DD, or empty when
	// the provider's value could not be parsed.
	Date string `json:"date"`

	// Subjects are the legal-area tags, order preserved.
	Subjects []string `json:"subjects,omitempty"`

	// Weight is the derived precedent weight.
	Weight PrecedentWeight `json:"precedent_weight"`

	// DetailURL links to the human-readable decision page.
	DetailURL string `json:"detail_url"`

	// Summary is the provider's free-text case summary, if present.
	Summary string `json:"summary,omitempty"`

	// CaseNumber is the docket number, if present.
	CaseNumber string `json:"case_number,omitempty"`
}

// highValueSubjects are legal areas that lift an otherwise low-weight
// decision to medium. The table is fixed for output compatibility; it is
// not configurable.
var highValueSubjects = []string{
	"staatsrecht",
	"grondrechten",
	"mensenrechten",
	"europees recht",
	"internationaal recht",
}

// derivePrecedentWeight applies the fixed authority lookup: the Hoge Raad
// ranks high, the appellate Gerechtshoven medium, and everything else low
// unless a subject tag matches the high-value table.
func derivePrecedentWeight(court string, subjects []string) PrecedentWeight {
	c := strings.ToLower(court)
	if strings.Contains(c, "hoge raad") {
		return WeightHigh
	}
	if strings.Contains(c, "gerechtshof") {
		return WeightMedium
	}
	for _, subject := range subjects {
		s := strings.ToLower(subject)
		for _, keyword := range highValueSubjects {
			if strings.Contains(s, keyword) {
				return WeightMedium
			}
		}
	}
	return WeightLow
}

// dateLayouts are the calendar formats the provider has been seen to use.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02-01-2006",
	"20060102",
}

// normalizeDate rewrites any parseable calendar date to YYYY-MM-DD.
// Unparseable input yields an empty string; a bad date never fails the
// record it belongs to.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
