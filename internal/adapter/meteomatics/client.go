// Package meteomatics fetches observed historical weather from the
// Meteomatics API and probes credential health on a schedule.
package meteomatics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/weatherwise-risk/internal/config"
	"github.com/couchcryptid/weatherwise-risk/internal/domain"
	"github.com/couchcryptid/weatherwise-risk/internal/observability"
)

const historyParams = "t_2m:C,precip_24h:mm,relative_humidity_2m:p,wind_speed_10m:ms"

// Fallbacks for parameters missing from a response.
const (
	defaultTemperatureC = 25
	defaultHumidity     = 50
	defaultWindSpeedMS  = 3
)

// Meteomatics encodes missing values as large negative sentinels.
const missingValueCutoff = -666

var (
	// ErrNotConfigured is returned when credentials are absent.
	ErrNotConfigured = errors.New("meteomatics credentials not configured")
	// ErrUnauthorized is returned for a 401 from the API.
	ErrUnauthorized = errors.New("meteomatics credentials rejected")
	// ErrUnexpectedStatus is returned for any other non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected meteomatics status")
	// ErrCircuitOpen is returned by Probe while the breaker is rejecting calls.
	ErrCircuitOpen = errors.New("meteomatics circuit breaker open")
)

// Client implements domain.HistoryFetcher against the Meteomatics REST API.
type Client struct {
	username   string
	password   string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Meteomatics client from configuration. Each request is
// bounded by METEOMATICS_TIMEOUT. The breaker guards the credential probe
// only: three consecutive probe failures open it for thirty seconds.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		username:   cfg.MeteomaticsUsername,
		password:   cfg.MeteomaticsPassword,
		baseURL:    strings.TrimRight(cfg.MeteomaticsBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.MeteomaticsTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "meteomatics-probe",
			MaxRequests: 1,
			Interval:    1 * time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
		logger:  logger,
		metrics: metrics,
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.username != "" && c.password != ""
}

// FetchHistory requests the target calendar date at noon UTC for each year
// 2014–2023, one call per year. Every year is attempted; years that fail are
// skipped and the returned slice holds every year that succeeded. Each call
// records exactly one history_fetch outcome.
func (c *Client) FetchHistory(ctx context.Context, lat, lon float64, target time.Time) ([]domain.ObservedYear, error) {
	outcome := "error"
	start := time.Now()
	defer func() {
		c.metrics.HistoryFetch.WithLabelValues(outcome).Inc()
		c.metrics.HistoryFetchDuration.Observe(time.Since(start).Seconds())
	}()

	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	month, day := target.Month(), target.Day()
	var observed []domain.ObservedYear
	for year := domain.FirstObservedYear; year <= domain.LastHistoricalYear; year++ {
		if ctx.Err() != nil {
			return observed, ctx.Err()
		}

		obs, err := c.fetchYear(ctx, lat, lon, year, month, day)
		if err != nil {
			c.logger.Warn("meteomatics year fetch failed", "year", year, "error", err)
			continue
		}
		observed = append(observed, obs)
	}

	outcome = "insufficient"
	if len(observed) >= domain.MinObservedYears {
		outcome = "success"
	}
	c.logger.Debug("meteomatics history fetched", "years", len(observed), "lat", lat, "lon", lon)
	return observed, nil
}

func (c *Client) fetchYear(ctx context.Context, lat, lon float64, year int, month time.Month, day int) (domain.ObservedYear, error) {
	ts := fmt.Sprintf("%d-%02d-%02dT12:00:00Z", year, int(month), day)
	u := fmt.Sprintf("%s/%s/%s/%g,%g/json", c.baseURL, ts, historyParams, lat, lon)

	resp, err := c.get(ctx, u)
	if err != nil {
		return domain.ObservedYear{}, err
	}
	return resp.observedYear(year), nil
}

// Probe requests the current 2m temperature at a fixed point to validate
// credentials and connectivity. While the breaker is open it fails with
// ErrCircuitOpen without calling the API.
func (c *Client) Probe(ctx context.Context) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	ts := domain.Now().Format("2006-01-02T15:04:05") + "Z"
	u := fmt.Sprintf("%s/%s/t_2m:C/20,73/json", c.baseURL, ts)

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, u)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return err
}

func (c *Client) get(ctx context.Context, url string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meteomatics request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, body)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &r, nil
}

// Meteomatics API response types.

type response struct {
	Data []series `json:"data"`
}

type series struct {
	Parameter   string `json:"parameter"`
	Coordinates []struct {
		Dates []struct {
			Date  string   `json:"date"`
			Value *float64 `json:"value"`
		} `json:"dates"`
	} `json:"coordinates"`
}

// value returns the first reading of the series, if present and valid.
func (s series) value() (float64, bool) {
	if len(s.Coordinates) == 0 || len(s.Coordinates[0].Dates) == 0 {
		return 0, false
	}
	v := s.Coordinates[0].Dates[0].Value
	if v == nil || *v <= missingValueCutoff {
		return 0, false
	}
	return *v, true
}

func (r *response) observedYear(year int) domain.ObservedYear {
	obs := domain.ObservedYear{
		Year:            year,
		TemperatureC:    defaultTemperatureC,
		HumidityPercent: defaultHumidity,
		WindSpeedMS:     defaultWindSpeedMS,
	}
	for _, s := range r.Data {
		v, ok := s.value()
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(s.Parameter, "t_2m"):
			obs.TemperatureC = v
		case strings.HasPrefix(s.Parameter, "precip_24h"):
			obs.PrecipitationMM = v
		case strings.HasPrefix(s.Parameter, "relative_humidity"):
			obs.HumidityPercent = v
		case strings.HasPrefix(s.Parameter, "wind_speed"):
			obs.WindSpeedMS = v
		}
	}
	return obs
}
