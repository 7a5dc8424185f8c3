// Package http exposes the risk engine over a REST API alongside the
// health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/weatherwise-risk/internal/analysis"
	"github.com/couchcryptid/weatherwise-risk/internal/domain"
	"github.com/couchcryptid/weatherwise-risk/internal/export"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 4 << 20
)

var validate = validator.New()

// Analyzer runs forecast and historical analyses.
type Analyzer interface {
	Forecast(ctx context.Context, req analysis.ForecastRequest) domain.ForecastResult
	Historical(ctx context.Context, req analysis.HistoricalRequest) (domain.HistoricalResult, error)
}

// ProviderStatus reports the state of the historical data provider.
type ProviderStatus interface {
	Status() string
}

// Server exposes the API plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	analyzer   Analyzer
	provider   ProviderStatus
	corsOrigin string
	logger     *slog.Logger
}

// NewServer creates the HTTP server. provider may be nil when no historical
// data provider is configured.
func NewServer(addr string, analyzer Analyzer, provider ProviderStatus, ready sharedobs.ReadinessChecker, corsOrigin string, logger *slog.Logger) *Server {
	r := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 2 * time.Minute, // historical requests make up to ten provider calls
			IdleTimeout:  60 * time.Second,
		},
		analyzer:   analyzer,
		provider:   provider,
		corsOrigin: corsOrigin,
		logger:     logger,
	}

	r.Use(s.requestIDMiddleware)
	r.Use(s.corsMiddleware)

	// Preflight for every path; the CORS middleware sets the headers.
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(ready)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/forecast", s.handleForecast).Methods(http.MethodGet)
	api.HandleFunc("/historical-analysis", s.handleHistorical).Methods(http.MethodGet)
	api.HandleFunc("/download", s.handleDownload).Methods(http.MethodPost)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type healthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	RealData  string `json:"real_data"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	realData := "disabled"
	if s.provider != nil {
		realData = s.provider.Status()
	}
	sharedobs.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Message:   "WeatherWise API is running",
		Timestamp: domain.Now().Format(time.RFC3339),
		RealData:  realData,
	})
}

// coordinates is the validated point of an API request.
type coordinates struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := parseCoordinates(q.Get("lat"), q.Get("lon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.analyzer.Forecast(r.Context(), analysis.ForecastRequest{
		Lat:      c.Lat,
		Lon:      c.Lon,
		Activity: queryOrDefault(q.Get("activity"), analysis.DefaultActivity),
		Crop:     queryOrDefault(q.Get("crop"), analysis.DefaultCrop),
	})
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistorical(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("date") == "" {
		writeError(w, http.StatusBadRequest, "Date parameter required")
		return
	}
	c, err := parseCoordinates(q.Get("lat"), q.Get("lon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.analyzer.Historical(r.Context(), analysis.HistoricalRequest{
		Lat:        c.Lat,
		Lon:        c.Lon,
		TargetDate: q.Get("date"),
		Activity:   queryOrDefault(q.Get("activity"), analysis.DefaultActivity),
		Crop:       queryOrDefault(q.Get("crop"), analysis.DefaultCrop),
	})
	if errors.Is(err, domain.ErrMissingTargetDate) {
		writeError(w, http.StatusBadRequest, "Date parameter required")
		return
	}
	if err != nil {
		s.logger.Error("historical analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req export.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	file, err := export.Render(req)
	if errors.Is(err, export.ErrNoData) {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	if file.Format == export.FormatCSV {
		w.Header().Set("Content-Disposition", "attachment; filename="+file.Filename)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Body); err != nil {
		s.logger.Warn("write download failed", "error", err)
	}
}

// requestIDMiddleware propagates or assigns X-Request-ID and logs each request.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, "+requestIDHeader)
		next.ServeHTTP(w, r)
	})
}

// parseCoordinates applies the defaults for blank values and validates the
// range of the result.
func parseCoordinates(rawLat, rawLon string) (coordinates, error) {
	lat, err := parseFloatOrDefault(rawLat, analysis.DefaultLat)
	if err != nil {
		return coordinates{}, fmt.Errorf("invalid lat: %q", rawLat)
	}
	lon, err := parseFloatOrDefault(rawLon, analysis.DefaultLon)
	if err != nil {
		return coordinates{}, fmt.Errorf("invalid lon: %q", rawLon)
	}

	c := coordinates{Lat: lat, Lon: lon}
	if err := validate.Struct(c); err != nil {
		return coordinates{}, fmt.Errorf("coordinates out of range: lat=%g lon=%g", lat, lon)
	}
	return c, nil
}

func parseFloatOrDefault(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func queryOrDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
