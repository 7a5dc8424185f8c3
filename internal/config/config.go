package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr          string
	LogLevel          string
	LogFormat         string
	ShutdownTimeout   time.Duration
	CORSAllowedOrigin string

	// Meteomatics historical data provider. Real data is used only when
	// both credentials are set.
	MeteomaticsUsername      string
	MeteomaticsPassword      string
	MeteomaticsBaseURL       string
	MeteomaticsTimeout       time.Duration
	MeteomaticsProbeInterval time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Result publishing; disabled when no brokers are configured.
	KafkaBrokers       []string
	KafkaTopic         string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// MeteomaticsEnabled reports whether real historical data can be fetched.
func (c *Config) MeteomaticsEnabled() bool {
	return c.MeteomaticsUsername != "" && c.MeteomaticsPassword != ""
}

// KafkaEnabled reports whether results are published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first if
// present; variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	batchFlushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	meteomaticsTimeout, err := parsePositiveDuration("METEOMATICS_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	probeInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("METEOMATICS_PROBE_INTERVAL", "30m"))
	if err != nil || probeInterval < 0 {
		return nil, errors.New("invalid METEOMATICS_PROBE_INTERVAL")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:          sharedcfg.EnvOrDefault("HTTP_ADDR", defaultHTTPAddr()),
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
		CORSAllowedOrigin: sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGIN", "*"),

		MeteomaticsUsername:      firstEnv("METEOMATICS_USERNAME", "MY_APP_USERNAME"),
		MeteomaticsPassword:      firstEnv("METEOMATICS_PASSWORD", "MY_APP_PASSWORD"),
		MeteomaticsBaseURL:       sharedcfg.EnvOrDefault("METEOMATICS_BASE_URL", "https://api.meteomatics.com"),
		MeteomaticsTimeout:       meteomaticsTimeout,
		MeteomaticsProbeInterval: probeInterval,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		KafkaBrokers:       sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         sharedcfg.EnvOrDefault("KAFKA_TOPIC", "weather-risk-analyses"),
		BatchSize:          batchSize,
		BatchFlushInterval: batchFlushInterval,
	}

	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// defaultHTTPAddr honors the PORT convention of hosted platforms.
func defaultHTTPAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":5000"
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
