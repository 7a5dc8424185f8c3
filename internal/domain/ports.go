package domain

import (
	"context"
	"errors"
	"time"
)

// ErrMissingTargetDate is returned when a historical analysis is requested
// without a target date.
var ErrMissingTargetDate = errors.New("date parameter required")

// HistoryFetcher retrieves observed weather for the target calendar date in
// recent years. Implementations return whatever years they could fetch; the
// caller decides whether the set is large enough to use.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, lat, lon float64, target time.Time) ([]ObservedYear, error)
}

// BatchLoader writes completed analyses to a downstream sink.
type BatchLoader interface {
	LoadBatch(ctx context.Context, analyses []Analysis) error
}
