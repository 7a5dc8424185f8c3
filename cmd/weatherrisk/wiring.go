package main

import (
	"log/slog"

	"github.com/couchcryptid/weatherwise-risk/internal/adapter/mapbox"
	"github.com/couchcryptid/weatherwise-risk/internal/adapter/meteomatics"
	"github.com/couchcryptid/weatherwise-risk/internal/analysis"
	"github.com/couchcryptid/weatherwise-risk/internal/config"
	"github.com/couchcryptid/weatherwise-risk/internal/observability"
)

// providerOptions builds the optional collaborators shared by every command:
// the Mapbox geocoder and, unless offline, the Meteomatics fetcher. The
// returned client is nil when Meteomatics is not in use.
func providerOptions(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, offline bool) ([]analysis.Option, *meteomatics.Client) {
	var opts []analysis.Option

	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		opts = append(opts, analysis.WithGeocoder(mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)))
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	if offline || !cfg.MeteomaticsEnabled() {
		logger.Info("observed history disabled, using synthetic history only", "offline", offline)
		return opts, nil
	}
	client := meteomatics.NewClient(cfg, logger, metrics)
	logger.Info("meteomatics history enabled", "base_url", cfg.MeteomaticsBaseURL, "timeout", cfg.MeteomaticsTimeout)
	return append(opts, analysis.WithHistoryFetcher(client)), client
}
