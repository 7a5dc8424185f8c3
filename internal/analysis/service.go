// Package analysis orchestrates forecast and historical requests: it names
// the location, fetches observed history when a provider is configured, runs
// the engine, and hands finished results to the publisher.
package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/weatherwise-risk/internal/domain"
	"github.com/couchcryptid/weatherwise-risk/internal/observability"
)

// Defaults applied to omitted request fields.
const (
	DefaultLat      = 20.0
	DefaultLon      = 73.5
	DefaultActivity = "harvest"
	DefaultCrop     = "wheat"
)

// Publisher accepts finished analyses for asynchronous delivery.
type Publisher interface {
	Enqueue(a domain.Analysis) bool
}

// ForecastRequest asks for a 7-day forecast assessment.
type ForecastRequest struct {
	Lat      float64
	Lon      float64
	Activity string
	Crop     string
}

// HistoricalRequest asks for a long-range planning analysis of TargetDate
// (YYYY-MM-DD).
type HistoricalRequest struct {
	Lat        float64
	Lon        float64
	TargetDate string
	Activity   string
	Crop       string
}

// Service runs analyses. The geocoder, fetcher, and publisher are optional.
type Service struct {
	geocoder  domain.Geocoder
	fetcher   domain.HistoryFetcher
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithGeocoder names points outside the gazetteer with g.
func WithGeocoder(g domain.Geocoder) Option {
	return func(s *Service) { s.geocoder = g }
}

// WithHistoryFetcher enables observed history from f.
func WithHistoryFetcher(f domain.HistoryFetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithPublisher publishes every result to p.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// NewService creates a Service.
func NewService(logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{logger: logger, metrics: metrics}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Forecast builds and assesses the 7-day forecast for the request.
func (s *Service) Forecast(ctx context.Context, req ForecastRequest) domain.ForecastResult {
	start := time.Now()
	activity := domain.ParseActivity(req.Activity)

	result := domain.AnalyzeForecast(req.Lat, req.Lon, activity)
	result.AnalysisID = uuid.New().String()
	result.Location = s.location(ctx, req.Lat, req.Lon, activity, req.Crop)

	s.finish(result, start)
	return result
}

// Historical analyzes the target date against twenty years of history. A
// blank target date is rejected; a malformed one falls back to today.
func (s *Service) Historical(ctx context.Context, req HistoricalRequest) (domain.HistoricalResult, error) {
	if strings.TrimSpace(req.TargetDate) == "" {
		return domain.HistoricalResult{}, domain.ErrMissingTargetDate
	}

	start := time.Now()
	activity := domain.ParseActivity(req.Activity)

	observed := s.observedHistory(ctx, req)
	result := domain.AnalyzeHistory(domain.HistoryInput{
		Lat:        req.Lat,
		Lon:        req.Lon,
		TargetDate: req.TargetDate,
		Activity:   activity,
		Observed:   observed,
	})
	result.AnalysisID = uuid.New().String()
	result.Location = s.location(ctx, req.Lat, req.Lon, activity, req.Crop)

	source := string(domain.SourceSynthetic)
	if result.Statistics.ObservedYears > 0 {
		source = string(domain.SourceObserved)
	}
	s.metrics.HistorySource.WithLabelValues(source).Inc()
	s.logger.Info("historical analysis complete",
		"analysis_id", result.AnalysisID,
		"target_date", req.TargetDate,
		"source", source,
		"observed_years", result.Statistics.ObservedYears,
	)

	s.finish(result, start)
	return result, nil
}

// observedHistory fetches real data for a well-formed target date. Any
// failure degrades to synthetic-only analysis.
func (s *Service) observedHistory(ctx context.Context, req HistoricalRequest) []domain.ObservedYear {
	if s.fetcher == nil {
		return nil
	}
	target, ok := domain.ParseTargetDate(req.TargetDate)
	if !ok {
		return nil
	}

	observed, err := s.fetcher.FetchHistory(ctx, req.Lat, req.Lon, target)
	if err != nil {
		s.logger.Warn("observed history unavailable, using synthetic data",
			"error", err,
			"partial_years", len(observed),
		)
		return nil
	}
	return observed
}

func (s *Service) location(ctx context.Context, lat, lon float64, a domain.Activity, crop string) domain.Location {
	name := domain.ResolveLocationName(ctx, lat, lon, s.geocoder, s.logger)
	return domain.NewLocation(name, lat, lon, a, crop)
}

func (s *Service) finish(a domain.Analysis, start time.Time) {
	s.metrics.AnalysesTotal.WithLabelValues(a.Mode()).Inc()
	s.metrics.AnalysisDuration.WithLabelValues(a.Mode()).Observe(time.Since(start).Seconds())
	if s.publisher != nil {
		s.publisher.Enqueue(a)
	}
}
