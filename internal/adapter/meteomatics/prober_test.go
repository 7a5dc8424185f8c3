package meteomatics

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weatherwise-risk/internal/observability"
)

type fakeProber struct {
	mu         sync.Mutex
	configured bool
	err        error
	calls      atomic.Int32
}

func (f *fakeProber) Configured() bool { return f.configured }

func (f *fakeProber) Probe(_ context.Context) error {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeProber) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func TestProber_DisabledWithoutCredentials(t *testing.T) {
	fake := &fakeProber{}
	p := NewProber(fake, time.Minute, discardLogger(), observability.NewMetricsForTesting())

	require.NoError(t, p.Start())
	defer p.Stop()

	assert.Equal(t, StatusDisabled, p.Status())
	assert.Zero(t, fake.calls.Load())
}

func TestProber_StatusTransitions(t *testing.T) {
	fake := &fakeProber{configured: true}
	metrics := observability.NewMetricsForTesting()
	p := NewProber(fake, 0, discardLogger(), metrics)

	assert.Equal(t, StatusUnavailable, p.Status(), "unprobed provider is not reported healthy")

	p.probe()
	assert.Equal(t, StatusOK, p.Status())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ProviderUp))

	fake.setErr(ErrUnauthorized)
	p.probe()
	assert.Equal(t, StatusUnavailable, p.Status())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ProviderUp))

	fake.setErr(nil)
	p.probe()
	assert.Equal(t, StatusOK, p.Status())
}

func TestProber_StartOnceWithZeroInterval(t *testing.T) {
	fake := &fakeProber{configured: true}
	p := NewProber(fake, 0, discardLogger(), observability.NewMetricsForTesting())

	require.NoError(t, p.Start())
	defer p.Stop()

	assert.Eventually(t, func() bool { return p.Status() == StatusOK }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestProber_ScheduledProbeRunsImmediately(t *testing.T) {
	fake := &fakeProber{configured: true, err: errors.New("connection refused")}
	metrics := observability.NewMetricsForTesting()
	p := NewProber(fake, 30*time.Minute, discardLogger(), metrics)

	require.NoError(t, p.Start())
	defer p.Stop()

	assert.Eventually(t, func() bool { return fake.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, StatusUnavailable, p.Status())
}
