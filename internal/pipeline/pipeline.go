// Package pipeline publishes completed analyses to a downstream sink in
// batches, off the request path.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/weatherwise-risk/internal/domain"
	"github.com/couchcryptid/weatherwise-risk/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	maxAttempts    = 3
	drainTimeout   = 5 * time.Second
)

// Publisher buffers analyses and flushes them to a BatchLoader when the
// batch fills or the flush interval elapses. Enqueue never blocks; results
// are dropped when the queue is full.
type Publisher struct {
	loader        domain.BatchLoader
	queue         chan domain.Analysis
	logger        *slog.Logger
	metrics       *observability.Metrics
	running       atomic.Bool
	stopped       atomic.Bool
	batchSize     int
	flushInterval time.Duration
}

// New creates a Publisher. The queue holds four batches.
func New(l domain.BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration) *Publisher {
	return &Publisher{
		loader:        l,
		queue:         make(chan domain.Analysis, batchSize*4),
		logger:        logger,
		metrics:       metrics,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Enqueue hands an analysis to the publisher. It reports false when the
// queue is full or the publisher has stopped, and the analysis was dropped.
func (p *Publisher) Enqueue(a domain.Analysis) bool {
	if p.stopped.Load() {
		p.metrics.Publish.WithLabelValues("dropped").Inc()
		p.logger.Warn("publisher stopped, dropping analysis", "analysis_id", a.ID(), "mode", a.Mode())
		return false
	}
	select {
	case p.queue <- a:
		return true
	default:
		p.metrics.Publish.WithLabelValues("dropped").Inc()
		p.logger.Warn("publish queue full, dropping analysis", "analysis_id", a.ID(), "mode", a.Mode())
		return false
	}
}

// CheckReadiness returns nil while the publish loop is running.
func (p *Publisher) CheckReadiness(_ context.Context) error {
	if !p.running.Load() {
		return errors.New("publisher is not running")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled, then flushes
// whatever is still queued.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("publisher started", "batch_size", p.batchSize, "flush_interval", p.flushInterval)
	p.running.Store(true)
	defer p.running.Store(false)

	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	batch := make([]domain.Analysis, 0, p.batchSize)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("publisher stopping", "reason", ctx.Err())
			p.stopped.Store(true)
			p.drain(batch)
			return nil
		case a := <-p.queue:
			batch = append(batch, a)
			if len(batch) >= p.batchSize {
				p.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				p.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

// drain publishes the pending batch plus anything left in the queue using
// a short detached deadline.
func (p *Publisher) drain(batch []domain.Analysis) {
	for len(p.queue) > 0 {
		batch = append(batch, <-p.queue)
	}
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	p.flush(ctx, batch)
}

// flush loads one batch, retrying with exponential backoff. A batch that
// still fails after maxAttempts is dropped.
func (p *Publisher) flush(ctx context.Context, batch []domain.Analysis) {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			p.metrics.Publish.WithLabelValues("success").Add(float64(len(batch)))
			return
		}

		p.logger.Error("publish batch failed", "error", err, "batch_size", len(batch), "attempt", attempt)
		if attempt >= maxAttempts || ctx.Err() != nil {
			p.metrics.Publish.WithLabelValues("error").Add(float64(len(batch)))
			return
		}
		if !sharedretry.SleepWithContext(ctx, backoff) {
			p.metrics.Publish.WithLabelValues("error").Add(float64(len(batch)))
			return
		}
		backoff = sharedretry.NextBackoff(backoff, maxBackoff)
	}
}
