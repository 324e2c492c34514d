package rechtspraak

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects counters for the retrieval layer. A nil *Metrics is
// valid and records nothing, so tests and one-shot CLI runs can skip
// registration entirely.
type Metrics struct {
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	retries        prometheus.Counter
	requestSeconds prometheus.Histogram
	skippedRecords prometheus.Counter
	droppedEntries prometheus.Counter
	defaultedField *prometheus.CounterVec
}

// NewMetrics creates and registers the retrieval metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rechtsbron",
			Subsystem: "transport",
			Name:      "cache_hits_total",
			Help:      "Responses served from the in-memory TTL cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rechtsbron",
			Subsystem: "transport",
			Name:      "cache_misses_total",
			Help:      "Requests that went to the remote provider.",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rechtsbron",
			Subsystem: "transport",
			Name:      "retries_total",
			Help:      "Retry attempts after a retryable failure.",
		}),
		requestSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rechtsbron",
			Subsystem: "transport",
			Name:      "request_duration_seconds",
			Help:      "Remote request duration, including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
		skippedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rechtsbron",
			Subsystem: "search",
			Name:      "skipped_records_total",
			Help:      "Detail fetches that failed and were excluded from results.",
		}),
		droppedEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rechtsbron",
			Subsystem: "search",
			Name:      "dropped_entries_total",
			Help:      "Search entries dropped for lacking an identifier.",
		}),
		defaultedField: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rechtsbron",
			Subsystem: "mapper",
			Name:      "defaulted_fields_total",
			Help:      "Detail fields absent from the payload and filled with a default.",
		}, []string{"field"}),
	}

	reg.MustRegister(
		m.cacheHits,
		m.cacheMisses,
		m.retries,
		m.requestSeconds,
		m.skippedRecords,
		m.droppedEntries,
		m.defaultedField,
	)
	return m
}

func (m *Metrics) cacheHit() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

func (m *Metrics) cacheMiss() {
	if m != nil {
		m.cacheMisses.Inc()
	}
}

func (m *Metrics) retry() {
	if m != nil {
		m.retries.Inc()
	}
}

func (m *Metrics) observeRequest(seconds float64) {
	if m != nil {
		m.requestSeconds.Observe(seconds)
	}
}

func (m *Metrics) skippedRecord() {
	if m != nil {
		m.skippedRecords.Inc()
	}
}

func (m *Metrics) droppedEntry() {
	if m != nil {
		m.droppedEntries.Inc()
	}
}

func (m *Metrics) defaultedFieldUsed(field string) {
	if m != nil {
		m.defaultedField.WithLabelValues(field).Inc()
	}
}
