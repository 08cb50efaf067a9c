package countries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/logger"
	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
	"github.com/weiwei-tsao/country-stats/apps/api/pkg/util"
)

// AllQuery is the Query recorded for an unfiltered report.
const AllQuery = "*"

// History page sizes.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ReportStore persists report runs.
type ReportStore interface {
	SaveReport(ctx context.Context, run model.ReportRun) error
	GetReport(ctx context.Context, id string) (model.ReportRun, error)
	// ListReports returns the newest runs first. An empty queryKey lists every query.
	ListReports(ctx context.Context, queryKey string, limit int) ([]model.ReportRun, error)
}

// Service fetches countries, aggregates them and records the resulting reports.
type Service struct {
	source  Source
	store   ReportStore
	jobs    *JobManager
	log     *logger.Logger
	tracer  trace.Tracer
	workers int
	now     func() time.Time
	newID   func() string
}

// NewService wires a Service. store may be nil, which disables report history.
func NewService(source Source, store ReportStore, log *logger.Logger, workers int) *Service {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		source:  source,
		store:   store,
		jobs:    NewJobManager(),
		log:     log.With("service", "countries"),
		tracer:  otel.Tracer("github.com/weiwei-tsao/country-stats/apps/api/internal/business/countries"),
		workers: workers,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
}

// All aggregates every country the provider knows.
func (s *Service) All(ctx context.Context) (model.ReportRun, error) {
	ctx, span := s.tracer.Start(ctx, "countries.All")
	defer span.End()

	records, err := s.source.All(ctx)
	if err != nil {
		recordSpanError(span, err)
		return model.ReportRun{}, fmt.Errorf("fetch all countries: %w", err)
	}
	return s.finish(ctx, AllQuery, util.QueryKey(), records)
}

// Search aggregates the countries matching one or more name terms. When
// clientKey is set, a newer Search with the same key cancels this one, which
// then returns ErrSuperseded.
func (s *Service) Search(ctx context.Context, clientKey string, names ...string) (model.ReportRun, error) {
	terms := searchTerms(names)
	if len(terms) == 0 {
		return model.ReportRun{}, ErrEmptyQuery
	}

	if clientKey != "" {
		var done func()
		ctx, done = s.jobs.Begin(ctx, clientKey)
		defer done()
	}

	ctx, span := s.tracer.Start(ctx, "countries.Search", trace.WithAttributes(
		attribute.StringSlice("countries.terms", terms),
	))
	defer span.End()

	var (
		records []model.CountryRecord
		err     error
	)
	if len(terms) == 1 {
		records, err = s.source.ByName(ctx, terms[0])
	} else {
		records, err = fetchMany(ctx, s.source, terms, s.workers)
		if err == nil && len(records) == 0 {
			err = fmt.Errorf("search %q: %w", strings.Join(terms, ", "), ErrNotFound)
		}
	}
	if superseded(ctx) {
		s.log.Debug("search superseded", "client", clientKey, "terms", terms)
		span.SetStatus(codes.Error, ErrSuperseded.Error())
		return model.ReportRun{}, ErrSuperseded
	}
	if err != nil {
		recordSpanError(span, err)
		return model.ReportRun{}, err
	}
	return s.finish(ctx, strings.Join(terms, ", "), util.QueryKey(terms...), records)
}

// History lists persisted reports, newest first. An empty query lists all of them.
// limit defaults to DefaultHistoryLimit and is capped at MaxHistoryLimit.
func (s *Service) History(ctx context.Context, query string, limit int) ([]model.ReportRun, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.store.ListReports(ctx, HistoryKey(query), limit)
}

// HistoryKey maps a history filter to the stored query key. An empty query
// maps to "" (no filter) and AllQuery to the key of unfiltered reports.
func HistoryKey(query string) string {
	switch q := strings.TrimSpace(query); q {
	case "":
		return ""
	case AllQuery:
		return util.QueryKey()
	default:
		return util.QueryKey(strings.Split(q, ",")...)
	}
}

// Report loads one persisted report.
func (s *Service) Report(ctx context.Context, id string) (model.ReportRun, error) {
	if s.store == nil {
		return model.ReportRun{}, ErrHistoryDisabled
	}
	return s.store.GetReport(ctx, id)
}

// Close cancels every in-flight search.
func (s *Service) Close() {
	s.jobs.CancelAll(errors.New("service shutting down"))
}

func (s *Service) finish(ctx context.Context, query, key string, records []model.CountryRecord) (model.ReportRun, error) {
	_, span := s.tracer.Start(ctx, "countries.Aggregate", trace.WithAttributes(
		attribute.Int("countries.records", len(records)),
	))
	report, err := Aggregate(records)
	if err != nil {
		recordSpanError(span, err)
		span.End()
		return model.ReportRun{}, err
	}
	span.End()

	run := model.ReportRun{
		ID:        s.newID(),
		Query:     query,
		QueryKey:  key,
		CreatedAt: s.now(),
		Report:    report,
	}
	if s.store != nil {
		// History is best effort; the caller still gets the report.
		if err := s.store.SaveReport(ctx, run); err != nil {
			s.log.Warn("save report failed", "report_id", run.ID, "query", query, "error", err)
		}
	}
	s.log.Info("report built",
		"report_id", run.ID,
		"query", query,
		"countries", report.TotalCountries,
		"regions", len(report.RegionCounts),
		"currencies", len(report.CurrencyCounts),
	)
	return run, nil
}

// searchTerms trims and de-duplicates (case-insensitively) the requested names,
// also splitting comma separated values.
func searchTerms(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var terms []string
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			part = strings.TrimSpace(part)
			key := util.NormalizeQuery(part)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			terms = append(terms, part)
		}
	}
	return terms
}

func superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
