//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weatherwise-risk/internal/observability"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	// Manhattan
	result, err := c.ReverseGeocode(context.Background(), 40.7128, -74.006)
	require.NoError(t, err)

	assert.Contains(t, result.FormattedAddress, "New York")
	assert.NotEmpty(t, result.PlaceName)
	assert.Greater(t, result.Confidence, 0.0)
}

func TestSmoke_ReverseGeocode_Ocean(t *testing.T) {
	c := smokeClient(t)

	// Mid-Atlantic has no settlement; the client should return an empty result.
	result, err := c.ReverseGeocode(context.Background(), 30.0, -40.0)
	require.NoError(t, err)
	assert.Empty(t, result.FormattedAddress)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())

	r1, err := cached.ReverseGeocode(context.Background(), 51.5074, -0.1278)
	require.NoError(t, err)
	assert.Contains(t, r1.FormattedAddress, "London")

	r2, err := cached.ReverseGeocode(context.Background(), 51.5074, -0.1278)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
