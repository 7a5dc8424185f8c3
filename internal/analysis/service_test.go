package analysis

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weatherwise-risk/internal/domain"
	"github.com/couchcryptid/weatherwise-risk/internal/observability"
)

// --- mocks ---

type mockFetcher struct {
	years  []domain.ObservedYear
	err    error
	calls  int
	target time.Time
}

func (m *mockFetcher) FetchHistory(_ context.Context, _, _ float64, target time.Time) ([]domain.ObservedYear, error) {
	m.calls++
	m.target = target
	return m.years, m.err
}

type mockGeocoder struct {
	name string
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	return domain.GeocodingResult{PlaceName: m.name}, nil
}

type mockPublisher struct {
	mu       sync.Mutex
	analyses []domain.Analysis
}

func (m *mockPublisher) Enqueue(a domain.Analysis) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses = append(m.analyses, a)
	return true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func observedYears(n int) []domain.ObservedYear {
	years := make([]domain.ObservedYear, n)
	for i := range years {
		years[i] = domain.ObservedYear{
			Year:            domain.FirstObservedYear + i,
			TemperatureC:    27.3,
			PrecipitationMM: 0.4,
			HumidityPercent: 61,
			WindSpeedMS:     2.2,
		}
	}
	return years
}

// --- tests ---

func TestService_Forecast(t *testing.T) {
	freezeClock(t)
	pub := &mockPublisher{}
	metrics := observability.NewMetricsForTesting()
	svc := NewService(discardLogger(), metrics, WithPublisher(pub))

	r := svc.Forecast(context.Background(), ForecastRequest{Lat: 20.0, Lon: 73.5, Activity: "Planting", Crop: "rice"})

	_, err := uuid.Parse(r.AnalysisID)
	require.NoError(t, err)
	assert.Equal(t, "Nashik, Maharashtra, India", r.Location.Name)
	assert.Equal(t, domain.ActivityPlanting, r.Location.ActivityType)
	require.NotNil(t, r.Location.Crop)
	assert.Equal(t, "rice", *r.Location.Crop)
	assert.Len(t, r.Forecast, 7)
	assert.Equal(t, "2025-03-10", r.Forecast[0].Date)

	require.Len(t, pub.analyses, 1)
	assert.Equal(t, r.AnalysisID, pub.analyses[0].ID())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AnalysesTotal.WithLabelValues(domain.ModeForecast)))
}

func TestService_Forecast_MatchesEngine(t *testing.T) {
	freezeClock(t)
	svc := NewService(discardLogger(), observability.NewMetricsForTesting())

	r := svc.Forecast(context.Background(), ForecastRequest{Lat: 19.07, Lon: 72.87, Activity: "event"})
	want := domain.AnalyzeForecast(19.07, 72.87, domain.ActivityEvent)

	assert.Equal(t, want.Forecast, r.Forecast)
	assert.Equal(t, want.RiskAnalysis, r.RiskAnalysis)
	assert.Nil(t, r.Location.Crop, "crop is hidden for events")
}

func TestService_Forecast_Geocoder(t *testing.T) {
	freezeClock(t)
	svc := NewService(discardLogger(), observability.NewMetricsForTesting(),
		WithGeocoder(&mockGeocoder{name: "Mumbai"}))

	r := svc.Forecast(context.Background(), ForecastRequest{Lat: 19.07, Lon: 72.87})
	// Pune is within two degrees, so the gazetteer wins.
	assert.Equal(t, "Pune, Maharashtra, India", r.Location.Name)

	r = svc.Forecast(context.Background(), ForecastRequest{Lat: 40.7, Lon: -74.0})
	assert.Equal(t, "Mumbai", r.Location.Name)
}

func TestService_Historical_MissingDate(t *testing.T) {
	pub := &mockPublisher{}
	svc := NewService(discardLogger(), observability.NewMetricsForTesting(), WithPublisher(pub))

	_, err := svc.Historical(context.Background(), HistoricalRequest{Lat: 20, Lon: 73.5, TargetDate: "  "})
	require.ErrorIs(t, err, domain.ErrMissingTargetDate)
	assert.Empty(t, pub.analyses)
}

func TestService_Historical_Synthetic(t *testing.T) {
	freezeClock(t)
	metrics := observability.NewMetricsForTesting()
	svc := NewService(discardLogger(), metrics)

	r, err := svc.Historical(context.Background(), HistoricalRequest{
		Lat: 20.0, Lon: 73.5, TargetDate: "2025-10-20", Activity: "harvest", Crop: "wheat",
	})
	require.NoError(t, err)

	assert.Equal(t, 7, r.MonthsInAdvance)
	assert.Equal(t, 20, r.Statistics.TotalYearsAnalyzed)
	assert.Zero(t, r.Statistics.ObservedYears)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HistorySource.WithLabelValues("synthetic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AnalysesTotal.WithLabelValues(domain.ModeHistorical)))
}

func TestService_Historical_Observed(t *testing.T) {
	freezeClock(t)
	fetcher := &mockFetcher{years: observedYears(10)}
	metrics := observability.NewMetricsForTesting()
	svc := NewService(discardLogger(), metrics, WithHistoryFetcher(fetcher))

	r, err := svc.Historical(context.Background(), HistoricalRequest{Lat: 20.0, Lon: 73.5, TargetDate: "2025-07-04"})
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), fetcher.target)
	assert.Equal(t, 10, r.Statistics.ObservedYears)
	assert.Contains(t, r.DataSources, "Meteomatics Weather API (10 observed years)")
	for _, y := range r.HistoricalData {
		assert.Equal(t, domain.SourceObserved, y.Source)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HistorySource.WithLabelValues("observed")))
}

func TestService_Historical_FetchErrorDegrades(t *testing.T) {
	freezeClock(t)
	fetcher := &mockFetcher{years: observedYears(6), err: context.DeadlineExceeded}
	metrics := observability.NewMetricsForTesting()
	svc := NewService(discardLogger(), metrics, WithHistoryFetcher(fetcher))

	r, err := svc.Historical(context.Background(), HistoricalRequest{Lat: 20.0, Lon: 73.5, TargetDate: "2025-07-04"})
	require.NoError(t, err)

	synthetic := domain.AnalyzeHistory(domain.HistoryInput{Lat: 20.0, Lon: 73.5, TargetDate: "2025-07-04", Activity: domain.ActivityHarvest})
	assert.Equal(t, synthetic.Statistics, r.Statistics)
	assert.Zero(t, testutil.ToFloat64(metrics.HistoryFetch.WithLabelValues("error")), "fetch outcomes are counted by the fetcher")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HistorySource.WithLabelValues("synthetic")))
}

func TestService_Historical_MalformedDateSkipsFetch(t *testing.T) {
	freezeClock(t)
	fetcher := &mockFetcher{years: observedYears(10)}
	svc := NewService(discardLogger(), observability.NewMetricsForTesting(), WithHistoryFetcher(fetcher))

	r, err := svc.Historical(context.Background(), HistoricalRequest{Lat: 20.0, Lon: 73.5, TargetDate: "next tuesday"})
	require.NoError(t, err)

	assert.Zero(t, fetcher.calls)
	assert.Equal(t, "next tuesday", r.TargetDate)
	assert.Zero(t, r.MonthsInAdvance)
	// Falls back to today's calendar date.
	assert.Equal(t, "2023-03-10", r.HistoricalData[len(r.HistoricalData)-1].Date)
}
