package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/joel-u410/namada-indexer/internal/alert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDBStatsProvider struct {
	stats sql.DBStats
}

func (f fakeDBStatsProvider) Stats() sql.DBStats {
	return f.stats
}

type panicDBStatsProvider struct{}

func (panicDBStatsProvider) Stats() sql.DBStats {
	panic("db stats temporarily unavailable")
}

type channelAlerter struct {
	ch chan alert.Alert
}

func (c *channelAlerter) Send(_ context.Context, a alert.Alert) error {
	c.ch <- a
	return nil
}

type countingAlerter struct {
	mu    sync.Mutex
	count int
}

func (c *countingAlerter) Send(context.Context, alert.Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return nil
}

func testGauges() dbPoolStatsGauges {
	return dbPoolStatsGauges{
		open:         prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_db_pool_open"}),
		inUse:        prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_db_pool_in_use"}),
		idle:         prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_db_pool_idle"}),
		waitCount:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_db_pool_wait_count"}),
		waitDuration: prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_db_pool_wait_duration_seconds"}),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCollectDBPoolStats_RecordsGauges(t *testing.T) {
	gauges := testGauges()
	provider := fakeDBStatsProvider{stats: sql.DBStats{
		OpenConnections: 10,
		InUse:           3,
		Idle:            7,
		WaitCount:       13,
		WaitDuration:    1500 * time.Millisecond,
	}}

	stats, err := collectDBPoolStats(provider, gauges)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.InUse)

	assert.Equal(t, 10.0, testutil.ToFloat64(gauges.open))
	assert.Equal(t, 3.0, testutil.ToFloat64(gauges.inUse))
	assert.Equal(t, 7.0, testutil.ToFloat64(gauges.idle))
	assert.Equal(t, 13.0, testutil.ToFloat64(gauges.waitCount))
	assert.Equal(t, 1.5, testutil.ToFloat64(gauges.waitDuration))
}

func TestCollectDBPoolStats_ReturnsErrorOnPanic(t *testing.T) {
	_, err := collectDBPoolStats(panicDBStatsProvider{}, testGauges())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")

	_, err = collectDBPoolStats(nil, testGauges())
	require.Error(t, err)
}

func TestPoolExhausted(t *testing.T) {
	tests := []struct {
		name  string
		stats sql.DBStats
		want  bool
	}{
		{name: "unlimited pool", stats: sql.DBStats{MaxOpenConnections: 0, InUse: 500}, want: false},
		{name: "below threshold", stats: sql.DBStats{MaxOpenConnections: 25, InUse: 19}, want: false},
		{name: "at threshold", stats: sql.DBStats{MaxOpenConnections: 25, InUse: 20}, want: true},
		{name: "saturated", stats: sql.DBStats{MaxOpenConnections: 10, InUse: 10}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, poolExhausted(tt.stats))
		})
	}
}

func TestRunDBPoolStatsPump_AlertsAboveThreshold(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alerter := &channelAlerter{ch: make(chan alert.Alert, 1)}
	provider := fakeDBStatsProvider{stats: sql.DBStats{MaxOpenConnections: 10, InUse: 9, WaitCount: 4}}

	done := make(chan error, 1)
	go func() {
		done <- runDBPoolStatsPump(ctx, provider, time.Hour, testGauges(), alerter, "transactions", discardLogger())
	}()

	select {
	case a := <-alerter.ch:
		assert.Equal(t, alert.AlertTypeDBPool, a.Type)
		assert.Equal(t, "transactions", a.Crawler)
		assert.Equal(t, "9", a.Fields["in_use"])
		assert.Equal(t, "10", a.Fields["max_open"])
	case <-time.After(5 * time.Second):
		t.Fatal("expected a pool exhaustion alert")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRunDBPoolStatsPump_NoAlertBelowThreshold(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	alerter := &countingAlerter{}
	provider := fakeDBStatsProvider{stats: sql.DBStats{MaxOpenConnections: 10, InUse: 2}}

	done := make(chan error, 1)
	go func() {
		done <- runDBPoolStatsPump(ctx, provider, 10*time.Millisecond, testGauges(), alerter, "transactions", discardLogger())
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	alerter.mu.Lock()
	defer alerter.mu.Unlock()
	assert.Zero(t, alerter.count)
}

func TestRunDBPoolStatsPump_ToleratesStatsPanics(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := runDBPoolStatsPump(ctx, panicDBStatsProvider{}, 5*time.Millisecond, testGauges(), alert.NoopAlerter{}, "transactions", discardLogger())
	assert.NoError(t, err)
}

func TestRunDBPoolStatsPump_DisabledReturnsImmediately(t *testing.T) {
	assert.NoError(t, runDBPoolStatsPump(context.Background(), nil, time.Second, testGauges(), alert.NoopAlerter{}, "x", discardLogger()))
	assert.NoError(t, runDBPoolStatsPump(context.Background(), fakeDBStatsProvider{}, 0, testGauges(), alert.NoopAlerter{}, "x", discardLogger()))
}
