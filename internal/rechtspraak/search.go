package rechtspraak

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tombee/rechtsbron/internal/log"
	"github.com/tombee/rechtsbron/pkg/errors"
)

const (
	// MaxResultCeiling caps how many detail fetches one search may issue,
	// regardless of what the caller asked for.
	MaxResultCeiling = 50

	// DefaultMaxResults applies when the caller does not bound a search.
	DefaultMaxResults = 10

	// searchEndpoint lists matching decisions as an Atom-style feed.
	searchEndpoint = "zoeken"

	// contentEndpoint returns one decision's detail payload.
	contentEndpoint = "content"
)

// Criteria is a case-law search request.
type Criteria struct {
	// Query is free-text search input.
	Query string

	// Court filters by issuing body.
	Court string

	// DateFrom and DateTo bound the decision date, inclusive.
	DateFrom string
	DateTo   string

	// MaxResults bounds how many records to retrieve. Values above
	// MaxResultCeiling are clamped; zero means DefaultMaxResults.
	MaxResults int

	// Subjects filters by legal-area tags.
	Subjects []string
}

// limit returns the effective detail-fetch bound.
func (c Criteria) limit() int {
	switch {
	case c.MaxResults <= 0:
		return DefaultMaxResults
	case c.MaxResults > MaxResultCeiling:
		return MaxResultCeiling
	default:
		return c.MaxResults
	}
}

// params serializes the criteria into provider query parameters.
func (c Criteria) params() map[string]string {
	params := map[string]string{
		"max": strconv.Itoa(c.limit()),
	}
	if c.Query != "" {
		params["q"] = c.Query
	}
	if c.Court != "" {
		params["creator"] = c.Court
	}
	if c.DateFrom != "" {
		params["date-from"] = c.DateFrom
	}
	if c.DateTo != "" {
		params["date-to"] = c.DateTo
	}
	if len(c.Subjects) > 0 {
		params["subject"] = strings.Join(c.Subjects, " ")
	}
	return params
}

// Service is the two-phase search orchestrator: one search call to obtain
// identifiers, then one detail call per identifier. Detail fetches run
// strictly sequentially, paced by a rate limiter, to respect the
// provider's limits and keep failure attribution simple.
type Service struct {
	client  *Client
	mapper  *Mapper
	logger  *slog.Logger
	metrics *Metrics
	limiter *rate.Limiter
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// ViewBase is the human-readable decision site for detail links.
	ViewBase string

	// DetailRate paces detail fetches, in fetches per second.
	// Default: 5/s with a burst of 1.
	DetailRate float64

	// Logger receives orchestration events. Default: slog.Default.
	Logger *slog.Logger

	// Metrics receives orchestration counters. Optional.
	Metrics *Metrics
}

// NewService creates the orchestrator on top of a transport client.
func NewService(client *Client, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	perSecond := cfg.DetailRate
	if perSecond <= 0 {
		perSecond = 5
	}
	return &Service{
		client:  client,
		mapper:  NewMapper(cfg.ViewBase, logger, cfg.Metrics),
		logger:  log.WithComponent(logger, "search"),
		metrics: cfg.Metrics,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Search runs the two-phase lookup. A failure of the search call itself
// (network, HTTP, parse) fails the whole operation; a failure of any
// single detail fetch only excludes that record. The result may be
// shorter than requested, including empty, and that is success.
func (s *Service) Search(ctx context.Context, criteria Criteria) ([]CaseRecord, error) {
	logger := log.WithCorrelationID(s.logger, uuid.NewString())
	start := time.Now()

	feed, meta, err := s.client.FetchNode(ctx, searchEndpoint, criteria.params())
	if err != nil {
		return nil, errors.Wrap(err, "search call")
	}

	identifiers := s.mapper.ExtractIdentifiers(feed)
	if limit := criteria.limit(); len(identifiers) > limit {
		identifiers = identifiers[:limit]
	}
	logger.Info("search feed retrieved",
		slog.String(log.QueryKey, criteria.Query),
		slog.Int("identifiers", len(identifiers)),
		slog.Bool(log.CacheKey, meta.FromCache),
	)

	records := make([]CaseRecord, 0, len(identifiers))
	for _, ecli := range identifiers {
		// A cancelled caller stops the loop; whatever is accumulated is
		// returned as a completed (shorter) result, no rollback needed.
		if ctx.Err() != nil {
			logger.Warn("detail loop interrupted",
				slog.Int("retrieved", len(records)),
				log.Error(ctx.Err()),
			)
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			break
		}

		record, err := s.GetDetails(ctx, ecli)
		if err != nil {
			s.metrics.skippedRecord()
			logger.Warn("detail fetch failed, skipping record",
				slog.String(log.ECLIKey, ecli),
				log.Error(err),
			)
			continue
		}
		records = append(records, record)
	}

	logger.Info("search completed",
		slog.Int("requested", criteria.limit()),
		slog.Int("retrieved", len(records)),
		log.Duration("duration", time.Since(start).Milliseconds()),
	)
	return records, nil
}

// GetDetails fetches and maps a single decision.
func (s *Service) GetDetails(ctx context.Context, ecli string) (CaseRecord, error) {
	if strings.TrimSpace(ecli) == "" {
		return CaseRecord{}, &errors.InvalidTargetError{Reason: "empty case identifier"}
	}

	doc, _, err := s.client.FetchNode(ctx, contentEndpoint, map[string]string{"id": ecli})
	if err != nil {
		return CaseRecord{}, errors.Wrapf(err, "fetching %s", ecli)
	}
	return s.mapper.MapDetail(doc, ecli)
}

// DetailURL exposes the mapper's link builder for callers that have an
// identifier but no record.
func (s *Service) DetailURL(ecli string) string {
	return s.mapper.DetailURL(ecli)
}

// CacheSize reports the underlying transport cache size, for the health
// tool.
func (s *Service) CacheSize() int {
	return s.client.CacheSize()
}

// BaseURL reports the provider base the service talks to.
func (s *Service) BaseURL() string {
	return s.client.BaseURL()
}
