package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// gazetteerRadius is the maximum degree-space distance for a gazetteer match.
const gazetteerRadius = 2.0

type place struct {
	lat, lon float64
	name     string
}

var gazetteer = []place{
	{20.0, 73.5, "Nashik, Maharashtra, India"},
	{18.5, 73.8, "Pune, Maharashtra, India"},
	{28.6, 77.2, "Delhi, India"},
	{12.9, 77.6, "Bangalore, Karnataka, India"},
}

// GazetteerName returns the nearest gazetteer entry within two degrees.
func GazetteerName(lat, lon float64) (string, bool) {
	best := math.Inf(1)
	name := ""
	for _, p := range gazetteer {
		d := math.Hypot(lat-p.lat, lon-p.lon)
		if d < best {
			best = d
			name = p.name
		}
	}
	if best < gazetteerRadius {
		return name, true
	}
	return "", false
}

// CoordinateName formats a point that has no known name.
func CoordinateName(lat, lon float64) string {
	return fmt.Sprintf("Location (%.1f°, %.1f°)", lat, lon)
}

// ResolveLocationName picks a display name: gazetteer first, then the
// geocoder when one is configured, else the coordinate string. Geocoder
// failures degrade to the coordinate string.
func ResolveLocationName(ctx context.Context, lat, lon float64, geocoder Geocoder, logger *slog.Logger) string {
	if name, ok := GazetteerName(lat, lon); ok {
		return name
	}
	if geocoder == nil {
		return CoordinateName(lat, lon)
	}

	result, err := geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", lat,
			"lon", lon,
			"error", err,
		)
		return CoordinateName(lat, lon)
	}
	if result.FormattedAddress != "" {
		return result.FormattedAddress
	}
	if result.PlaceName != "" {
		return result.PlaceName
	}
	return CoordinateName(lat, lon)
}

// NewLocation builds the display record for a request. The crop label is
// kept only for activities where it means something.
func NewLocation(name string, lat, lon float64, a Activity, crop string) Location {
	loc := Location{Name: name, Lat: lat, Lon: lon, ActivityType: a}
	if a.ShowsCrop() && crop != "" {
		loc.Crop = &crop
	}
	return loc
}
