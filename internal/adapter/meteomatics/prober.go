package meteomatics

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/couchcryptid/weatherwise-risk/internal/observability"
)

// Provider states reported by the health endpoint.
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	StatusDisabled    = "disabled"
)

const probeTimeout = 15 * time.Second

// prober is the subset of Client the scheduler needs.
type prober interface {
	Configured() bool
	Probe(ctx context.Context) error
}

// Prober periodically validates Meteomatics credentials and records the
// outcome for health reporting.
type Prober struct {
	client    prober
	scheduler *gocron.Scheduler
	interval  time.Duration
	up        atomic.Bool
	probed    atomic.Bool
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewProber creates a Prober. A zero interval probes once at start only.
func NewProber(client prober, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Prober {
	return &Prober{
		client:    client,
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
	}
}

// Start runs the first probe immediately and schedules the rest.
func (p *Prober) Start() error {
	if !p.client.Configured() {
		p.logger.Info("meteomatics credentials not set, using synthetic history only")
		return nil
	}

	if p.interval <= 0 {
		go p.probe()
		return nil
	}

	minutes := int(p.interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}
	if _, err := p.scheduler.Every(minutes).Minutes().Do(p.probe); err != nil {
		return err
	}
	p.scheduler.StartAsync()
	return nil
}

// Stop cancels future probes.
func (p *Prober) Stop() {
	p.scheduler.Stop()
}

// Status reports the provider state from the latest probe.
func (p *Prober) Status() string {
	switch {
	case !p.client.Configured():
		return StatusDisabled
	case p.up.Load():
		return StatusOK
	default:
		return StatusUnavailable
	}
}

func (p *Prober) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	err := p.client.Probe(ctx)
	wasUp := p.up.Swap(err == nil)
	first := !p.probed.Swap(true)

	if err != nil {
		p.metrics.ProviderUp.Set(0)
		if first || wasUp {
			p.logger.Warn("meteomatics probe failed", "error", err)
		}
		return
	}
	p.metrics.ProviderUp.Set(1)
	if first || !wasUp {
		p.logger.Info("meteomatics credentials valid")
	}
}
