package rechtspraak

import (
	"log/slog"
	"net/url"

	"github.com/tombee/rechtsbron/pkg/errors"
)

// Mapper extracts typed case records from decoded provider payloads.
// Missing optional fields degrade to documented defaults and are surfaced
// through the observability hook rather than failing the record; only an
// absent root envelope is fatal, since that means the provider changed
// its envelope format.
type Mapper struct {
	viewBase string
	logger   *slog.Logger
	metrics  *Metrics
}

// NewMapper creates a mapper. viewBase is the human-readable decision
// site used for detail links.
func NewMapper(viewBase string, logger *slog.Logger, metrics *Metrics) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{
		viewBase: viewBase,
		logger:   logger,
		metrics:  metrics,
	}
}

// ExtractIdentifiers walks the search feed and collects record
// identifiers in document order. The id field is tolerated as either a
// scalar or a one-element collection. Entries lacking an identifier are
// dropped, counted, and logged; sparse provider data is expected and is
// not an error.
func (m *Mapper) ExtractIdentifiers(doc *Node) []string {
	entries := doc.Get("feed", "entry").List()

	identifiers := make([]string, 0, len(entries))
	for _, entry := range entries {
		id := entry.Get("id").Text()
		if id == "" {
			m.metrics.droppedEntry()
			m.logger.Warn("search entry without identifier dropped")
			continue
		}
		identifiers = append(identifiers, id)
	}
	return identifiers
}

// MapDetail builds a CaseRecord from a decoded detail payload. The
// expected envelope is open-rechtspraak → RDF → Description; its absence
// raises MappingError. Every other field falls back per field.
func (m *Mapper) MapDetail(doc *Node, ecli string) (CaseRecord, error) {
	desc := doc.Get("open-rechtspraak", "RDF", "Description")
	if desc == nil {
		return CaseRecord{}, &errors.MappingError{Identifier: ecli, Missing: "RDF"}
	}

	record := CaseRecord{
		ECLI:       m.scalarField(desc, "identifier", ecli),
		Title:      m.scalarField(desc, "title", ecli),
		Court:      m.scalarField(desc, "creator", UnknownCourt),
		Subjects:   desc.Get("subject").Strings(),
		CaseNumber: desc.Get("zaaknummer").Text(),
		Summary:    doc.Get("open-rechtspraak", "inhoudsindicatie").Text(),
	}
	record.Date = normalizeDate(desc.Get("date").Text())
	record.Weight = derivePrecedentWeight(record.Court, record.Subjects)
	record.DetailURL = m.DetailURL(record.ECLI)

	return record, nil
}

// DetailURL builds the human-readable decision link for an identifier.
func (m *Mapper) DetailURL(ecli string) string {
	return m.viewBase + "/details?id=" + url.QueryEscape(ecli)
}

// scalarField reads a named field, normalizing scalar-or-list, and falls
// back to def when absent. Fallbacks are counted per field so schema
// drift against the provider shows up in metrics instead of silently
// shifting output.
func (m *Mapper) scalarField(desc *Node, field, def string) string {
	if value := desc.Get(field).Text(); value != "" {
		return value
	}
	m.metrics.defaultedFieldUsed(field)
	m.logger.Debug("detail field absent, using default",
		slog.String("field", field),
		slog.String("default", def),
	)
	return def
}
